// Package placement materializes resolved albums on disk.
//
// Each album becomes <target>/<folder_label>. Photos are copied or moved in,
// name collisions get numeric suffixes (IMG.jpg, IMG_1.jpg, ...), and
// modification times are carried over when requested. A dry run computes the
// same destinations without touching the filesystem. Writers hold an
// exclusive lock on <target>/.promptalbum.lock for the duration of a run.
package placement

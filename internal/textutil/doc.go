// Package textutil provides filename helpers shared by placement and the
// album documentation writers.
//
// The primary use cases are:
//   - Sanitizing album folder labels for safe filesystem use
//   - Splitting file names into stem and extension and deriving the
//     numbered variants used to resolve name conflicts
package textutil

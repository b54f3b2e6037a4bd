// Package docs writes the human-facing artifacts that accompany placed
// albums: a README.md and summary.json inside every album folder and an
// index.html gallery at the target root with one thumbnail card per album.
package docs

// Package splat orders 3D Gaussian splats back to front for a camera and
// packs their covariance, color and position into a GPU texture.
//
// # Pipeline
//
// Sorting runs in three stages:
//
//  1. Depth keys: every position is projected onto the view-space z axis
//     of a ViewMatrix, converted to 20.12 fixed point and shifted so the
//     smallest key is zero.
//  2. Radix sort: a stable four-pass LSD radix sort over the keys yields a
//     permutation. Ties keep input order, so identical input always gives
//     an identical permutation.
//  3. Reorder: attribute tuples are gathered through the permutation.
//
// GenerateTexture independently derives the 3×3 covariance of each splat
// from its rotation and scale, converts the six unique terms to binary16
// and writes them, with position and color, into a 2048-texel-wide
// RGBA32 texture.
//
// # Sorters
//
// A Sorter owns scratch buffers sized to a declared maximum splat count and
// reuses them across frames. It is not safe for concurrent use; keep one
// Sorter per goroutine or take one from a SorterPool. The package-level
// SortIndices and SortAndReorder borrow from a shared pool and return
// freshly allocated results.
//
// # Kernels
//
// Depth-key generation and the radix sort have a scalar reference kernel
// and a wide kernel selected from CPU features at run time. Both produce
// bit-identical keys and permutations; KernelScalar can be forced through
// SorterOptions.
package splat

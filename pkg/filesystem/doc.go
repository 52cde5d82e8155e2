// Package filesystem provides the filesystem access used by the installer.
//
// FS is a narrow interface over the operations the installer performs, with
// an OS-backed implementation returned by NewOS. On top of it the package
// classifies entries without following symlinks (Classify) and enumerates
// the leaves of directory trees (ListFiles, ListRelFiles).
package filesystem

// Package paths gives every filesystem location used by the installer a role.
//
// The installer addresses the same managed file in several places at once:
// the copy in the repository, the live entry in the home directory and the
// pre-image in the backup directory. A RelPath names the file, and a
// Root[R] anchors it in one of those places:
//
//	home := paths.MustRoot[paths.Home]("/home/user")
//	rel := paths.MustRelPath(".config/git/config")
//	live := home.Join(rel) // File[Home]
//
// Roles are distinct types, so a File[Home] cannot be handed to code that
// expects a File[Backup]. The only way to build a File is to join a RelPath
// onto a Root of the matching role.
//
// The package also discovers the roots at startup: the repository is the
// closest ancestor of the running executable that contains a .git directory,
// and the home directory comes from the current user's account record.
package paths

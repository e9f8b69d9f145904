// SPDX-License-Identifier: MPL-2.0

// Package walk is the tree visitor behind archive and bundle assembly.
//
// Walk traverses a file tree depth-first, following symbolic links, and
// hands every entry to a Visitor: directories before and after their
// children, files once each. It makes no inclusion decisions of its own.
//
// Two faults are tolerated because file trees change under a running build:
// a symbolic link that leads back into one of its own ancestor directories
// (the cyclic subtree is skipped) and an entry that disappears between being
// listed and being visited (that entry is skipped). Every other I/O error
// aborts the walk.
package walk

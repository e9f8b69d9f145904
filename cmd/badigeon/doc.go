// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the badigeon command tree.
//
// Commands load the project configuration (badigeon.cue), resolve the
// dependency set and delegate to the packaging packages under pkg/.
package cmd

// SPDX-License-Identifier: MPL-2.0

// Package policy decides, per walked entry, whether it is packaged and under
// which relative output path.
//
// A Decider maps (root, path) to an output path relative to the archive or
// bundle root, with ok == false meaning "exclude". The same interface drives
// archive passes and bundle copies. Strategies compose with First, where the
// first decider that accepts an entry wins.
package policy

// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/invowk/badigeon/cmd/badigeon"

func main() {
	cmd.Execute()
}

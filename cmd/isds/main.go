// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

// Command isds is a command line client for Czech data boxes.
package main

import "github.com/sirosfoundation/go-isds/internal/cli"

func main() {
	cli.Execute()
}

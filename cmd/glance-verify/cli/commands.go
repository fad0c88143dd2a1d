// Copyright 2025 The Glance Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cli wires the glance-verify commands.
package cli

import (
	"github.com/spf13/cobra"
	"sigs.k8s.io/release-utils/version"

	"github.com/blkart/glance/cmd/glance-verify/cli/options"
)

var ro = &options.RootOptions{}

// New builds the root command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "glance-verify",
		Short:             "Image signature verification.",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}
	ro.AddFlags(cmd)

	cmd.AddCommand(Verify())
	cmd.AddCommand(Inspect())
	cmd.AddCommand(version.WithFont("starwars"))
	return cmd
}

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

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blkart/glance/pkg/keytypes"
	"github.com/blkart/glance/pkg/signature"
)

// Inspect creates the inspect command: it prints the hash methods and
// signature key types this build supports. The ECC_* set depends on the
// crypto backend, so it has to be queried, not assumed.
func Inspect() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "List the supported hash methods and signature key types.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Println("Hash methods:")
			for _, name := range signature.HashMethodNames() {
				fmt.Printf("  %s\n", name)
			}
			fmt.Println("Signature key types:")
			for _, name := range keytypes.Default().RegisteredNames() {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}
}

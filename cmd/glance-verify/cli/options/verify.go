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

package options

import "github.com/spf13/cobra"

// VerifyOptions defines flags for the verify command.
type VerifyOptions struct {
	// PropertiesPath is a JSON file holding the image properties
	// (a flat string-to-string object).
	PropertiesPath string
	// CertsDir is the directory of PEM certificates serving as the
	// key-management store, one <id>.pem file per certificate id.
	CertsDir string
	// LegacyChecksum, when set, runs the deprecated sign-the-hash path
	// against this checksum instead of streaming the image content.
	LegacyChecksum string
}

// AddFlags adds verification flags to the cobra command.
func (o *VerifyOptions) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.PropertiesPath, "properties", "",
		"JSON file with the image signature properties")
	cmd.Flags().StringVar(&o.CertsDir, "certs-dir", "",
		"directory of PEM certificates, one <id>.pem per certificate id")
	cmd.Flags().StringVar(&o.LegacyChecksum, "legacy-checksum", "",
		"run the DEPRECATED sign-the-hash path against this checksum")
	_ = cmd.MarkFlagRequired("properties")
	_ = cmd.MarkFlagRequired("certs-dir")
	_ = cmd.MarkFlagFilename("properties", "json")
	_ = cmd.MarkFlagDirname("certs-dir")
}

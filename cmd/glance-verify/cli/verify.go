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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/blkart/glance/cmd/glance-verify/cli/options"
	"github.com/blkart/glance/pkg/keymanager/filestore"
	"github.com/blkart/glance/pkg/metadata"
	"github.com/blkart/glance/pkg/verify"
)

// Verify creates the verify command. It builds a verifier from the image
// properties and streams the image content through it, or, with
// --legacy-checksum, runs the deprecated sign-the-hash path.
func Verify() *cobra.Command {
	o := &options.VerifyOptions{}

	long := `Verify an image signature.

Builds a verifier from the signature properties in the JSON file given via
--properties, resolving the signing certificate from the PEM store given
via --certs-dir, and verifies the content of IMAGE_PATH against it.`

	cmd := &cobra.Command{
		Use:   "verify [OPTIONS] IMAGE_PATH",
		Short: "Verify an image signature.",
		Long:  long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd.Context(), o, args[0])
		},
	}

	o.AddFlags(cmd)
	return cmd
}

func runVerify(ctx context.Context, o *options.VerifyOptions, imagePath string) error {
	logger := ro.NewLogger()

	props, err := loadProperties(o.PropertiesPath)
	if err != nil {
		return err
	}

	manager, err := filestore.New(o.CertsDir)
	if err != nil {
		return err
	}

	builder, err := verify.NewBuilder(verify.BuilderOptions{
		KeyManager: manager,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	if o.LegacyChecksum != "" {
		logger.Warnln("the sign-the-hash path is deprecated and will be removed")
		if err := builder.VerifySignature(ctx, o.LegacyChecksum, props); err != nil {
			return err
		}
		fmt.Println("Signature verified (legacy sign-the-hash path)")
		return nil
	}

	verifier, err := builder.GetVerifier(ctx, props)
	if err != nil {
		return err
	}

	f, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("unable to open image: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(verifier, f); err != nil {
		return fmt.Errorf("unable to read image: %w", err)
	}
	if err := verifier.Verify(); err != nil {
		return err
	}

	fmt.Println("Signature verified")
	return nil
}

// loadProperties reads the image properties from a flat JSON object of
// string keys to string values.
func loadProperties(path string) (metadata.Properties, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read properties file: %w", err)
	}
	var props metadata.Properties
	if err := json.Unmarshal(data, &props); err != nil {
		return nil, fmt.Errorf("unable to parse properties file: %w", err)
	}
	return props, nil
}

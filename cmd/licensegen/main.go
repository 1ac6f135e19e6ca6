// licensegen issues machine-bound licenses for the ingestion worker.
// Key generation is done once per deployment; the public half is embedded in
// the worker binary and the private half never leaves the issuer.
package main

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aaleksandraa/wizBank/internal/license"
	"github.com/aaleksandraa/wizBank/pkg/models"
)

func main() {
	root := &cobra.Command{
		Use:           "licensegen",
		Short:         "Generate signing keys and issue wizBank licenses",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(keygenCmd(), signCmd(), fingerprintCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func keygenCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a new RSA-2048 signing key pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := rsa.GenerateKey(rand.Reader, 2048)
			if err != nil {
				return fmt.Errorf("failed to generate key: %w", err)
			}

			privDER, err := x509.MarshalPKCS8PrivateKey(key)
			if err != nil {
				return fmt.Errorf("failed to marshal private key: %w", err)
			}
			privPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})
			if err := os.WriteFile(dir+"/private_key.pem", privPEM, 0600); err != nil {
				return err
			}

			pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
			if err != nil {
				return fmt.Errorf("failed to marshal public key: %w", err)
			}
			pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
			if err := os.WriteFile(dir+"/public_key.pem", pubPEM, 0644); err != nil {
				return err
			}

			fmt.Println("wrote private_key.pem and public_key.pem")
			fmt.Println("embed public_key.pem in the worker and keep private_key.pem to yourself")
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "out", ".", "output directory")
	return cmd
}

func signCmd() *cobra.Command {
	var (
		keyPath     string
		fingerprint string
		holder      string
		plan        string
		validDays   int
	)
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Issue a signed license bound to a machine fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			keyPEM, err := os.ReadFile(keyPath)
			if err != nil {
				return err
			}
			block, _ := pem.Decode(keyPEM)
			if block == nil {
				return fmt.Errorf("no PEM block in %s", keyPath)
			}
			parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
			if err != nil {
				return fmt.Errorf("failed to parse private key: %w", err)
			}
			key, ok := parsed.(*rsa.PrivateKey)
			if !ok {
				return fmt.Errorf("private key is not RSA")
			}

			now := time.Now()
			fields := map[string]any{
				"fingerprint": strings.TrimSpace(fingerprint),
				"holder":      strings.TrimSpace(holder),
				"plan":        plan,
				"issued_at":   now.Format("2006-01-02T15:04:05"),
				"expires_at":  now.AddDate(0, 0, validDays).Format("2006-01-02T15:04:05"),
			}

			payload, err := license.CanonicalPayload(fields)
			if err != nil {
				return err
			}
			digest := sha256.Sum256(payload)
			signature, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
			if err != nil {
				return fmt.Errorf("failed to sign license: %w", err)
			}
			lic := models.License{
				Fingerprint: fields["fingerprint"].(string),
				Holder:      fields["holder"].(string),
				Plan:        plan,
				IssuedAt:    fields["issued_at"].(string),
				ExpiresAt:   fields["expires_at"].(string),
				Signature:   hex.EncodeToString(signature),
			}
			out, err := json.MarshalIndent(lic, "", "  ")
			if err != nil {
				return err
			}
			filename := fmt.Sprintf("license_%s.json", strings.ReplaceAll(lic.Holder, " ", "_"))
			if err := os.WriteFile(filename, out, 0644); err != nil {
				return err
			}

			fmt.Printf("license written to %s (valid until %s)\n", filename, lic.ExpiresAt)
			return nil
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", "private_key.pem", "path to the RSA private key")
	cmd.Flags().StringVar(&fingerprint, "fingerprint", "", "machine fingerprint of the license holder")
	cmd.Flags().StringVar(&holder, "holder", "", "company or user the license is issued to")
	cmd.Flags().StringVar(&plan, "plan", "Pro", "license plan")
	cmd.Flags().IntVar(&validDays, "days", 365, "validity period in days")
	cmd.MarkFlagRequired("fingerprint")
	cmd.MarkFlagRequired("holder")
	return cmd
}

func fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Print this machine's license fingerprint",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(license.Fingerprint())
		},
	}
}

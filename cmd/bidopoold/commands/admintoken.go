package commands

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bidolabs/bidopool-go/rpc"
)

var adminTokenCmd = &cobra.Command{
	Use:   "admin-token",
	Short: "Generate an admin bearer token and its config digest",
	Long: `Generate a random admin token together with the argon2id hash and salt
to put in the daemon configuration. The token is shown once and never
stored; keep it somewhere safe.`,
	RunE: runAdminToken,
}

func init() {
	rootCmd.AddCommand(adminTokenCmd)
}

func runAdminToken(cmd *cobra.Command, args []string) error {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("generate token: %w", err)
	}
	token := hex.EncodeToString(raw)

	salt, err := rpc.NewTokenSalt()
	if err != nil {
		return err
	}
	hash := rpc.HashToken(token, salt)

	bold := color.New(color.Bold).SprintFunc()
	fmt.Printf("%s %s\n\n", bold("admin token:"), token)
	fmt.Println("daemon configuration:")
	fmt.Printf("  BIDOPOOL_ADMIN_TOKEN_HASH=%s\n", hex.EncodeToString(hash))
	fmt.Printf("  BIDOPOOL_ADMIN_TOKEN_SALT=%s\n", hex.EncodeToString(salt))
	return nil
}

package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"sanctuary-mural/internal/service"

	"github.com/spf13/cobra"
)

func newHashKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-key",
		Short: "Read an admin API key from stdin and print its mural.api_key_hash digest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("reading key: %w", err)
			}
			key := strings.TrimSpace(line)
			if key == "" {
				return errors.New("key must not be empty")
			}

			digest, err := service.NewArgon2KeyHasher().Hash(key)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), digest)
			return nil
		},
	}
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/youyuhsuan/designare/assets"
)

type importOptions struct {
	file    string
	url     string
	cookie  string
	timeout time.Duration
}

func newImportCmd() *cobra.Command {
	opts := importOptions{}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Validate an asset definition file and insert it",
		Long: `Reads a JSON document of the form {"assetTypes": [...]}, validates it locally
and posts it to the server's /api/assets route.

The session cookie value is the "token" cookie issued by /api/auth/login.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runImport(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "asset definition file, - for stdin")
	cmd.Flags().StringVar(&opts.url, "url", "http://localhost:8080", "server base url")
	cmd.Flags().StringVar(&opts.cookie, "cookie", os.Getenv("DESIGNARE_SESSION"), "session cookie value")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "request timeout")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

type importResponse struct {
	Message string   `json:"message"`
	IDs     []string `json:"ids"`
	Error   string   `json:"error"`
}

func runImport(ctx context.Context, out io.Writer, opts importOptions) error {
	if opts.cookie == "" {
		return fmt.Errorf("a session cookie is required (--cookie or DESIGNARE_SESSION)")
	}
	root, err := readRoot(opts.file)
	if err != nil {
		return err
	}
	if err := root.Validate(); err != nil {
		return err
	}
	body, err := json.Marshal(root)
	if err != nil {
		return fmt.Errorf("encode asset types: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	endpoint := strings.TrimRight(opts.url, "/") + "/api/assets"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "token", Value: opts.cookie})

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	var res importResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("import failed with status %d: %s", resp.StatusCode, res.Error)
	}

	fmt.Fprintln(out, res.Message)
	for _, id := range res.IDs {
		fmt.Fprintln(out, id)
	}
	return nil
}

func readRoot(file string) (assets.Root, error) {
	var (
		data []byte
		err  error
	)
	if file == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return assets.Root{}, fmt.Errorf("read %s: %w", file, err)
	}
	var root assets.Root
	if err := json.Unmarshal(data, &root); err != nil {
		return assets.Root{}, fmt.Errorf("parse %s: %w", file, err)
	}
	return root, nil
}

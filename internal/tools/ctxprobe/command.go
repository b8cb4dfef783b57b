// Package ctxprobe is a smoke probe for a running context service. It
// checks liveness and, unless told otherwise, walks a short-lived context
// through the full mint, redeem and fetch cycle against a real deployment.
package ctxprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/cobra"
)

type options struct {
	baseURL    string
	brandID    string
	pageID     string
	slug       string
	ttlMinutes int
	timeout    time.Duration
	healthOnly bool
}

func NewRootCommand() *cobra.Command {
	opts := options{}
	root := &cobra.Command{
		Use:   "ctxprobe",
		Short: "Smoke-check a context service deployment",
	}

	run := &cobra.Command{
		Use:   "run",
		Short: "Probe health and walk a context through mint, redeem and fetch",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			return runProbe(ctx, cmd.OutOrStdout(), opts)
		},
	}
	run.Flags().StringVar(&opts.baseURL, "base-url", "http://localhost:8080", "service base URL")
	run.Flags().StringVar(&opts.brandID, "brand-id", "probe-brand", "brand id for the probe context")
	run.Flags().StringVar(&opts.pageID, "page-id", "probe-page", "page id for the probe context")
	run.Flags().StringVar(&opts.slug, "slug", "probe", "page slug for the probe context")
	run.Flags().IntVar(&opts.ttlMinutes, "ttl-minutes", 5, "TTL of the probe context")
	run.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall probe timeout")
	run.Flags().BoolVar(&opts.healthOnly, "health-only", false, "skip the mint/redeem/fetch cycle")

	root.AddCommand(run)
	return root
}

func runProbe(ctx context.Context, out io.Writer, opts options) error {
	if err := checkHealth(ctx, opts); err != nil {
		return err
	}
	fmt.Fprintln(out, "healthz: ok")
	if opts.healthOnly {
		return nil
	}

	ctxID, err := mintProbeContext(ctx, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "minted probe context %s\n", ctxID)

	loc, err := redeemContext(ctx, opts, ctxID, http.StatusFound)
	if err != nil {
		return err
	}
	if q := loc.Query().Get("ctx"); q != ctxID {
		return fmt.Errorf("redirect location is missing ctx=%s: %s", ctxID, loc)
	}
	fmt.Fprintf(out, "redeemed: redirect to %s\n", loc.Host)

	if err := fetchContext(ctx, opts, ctxID); err != nil {
		return err
	}
	fmt.Fprintln(out, "fetched signed record")

	// Single-use must hold: the second redeem has to be refused.
	if _, err := redeemContext(ctx, opts, ctxID, http.StatusGone); err != nil {
		return fmt.Errorf("single-use check: %w", err)
	}
	fmt.Fprintln(out, "single-use enforced")
	return nil
}

func checkHealth(ctx context.Context, opts options) error {
	res, err := doGet(ctx, opts.baseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("healthz: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("healthz: status %d: %s", res.StatusCode, bytes.TrimSpace(body))
	}
	return nil
}

func mintProbeContext(ctx context.Context, opts options) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"brand_id":    opts.brandID,
		"type":        "page",
		"page_id":     opts.pageID,
		"slug":        opts.slug,
		"ttl_minutes": opts.ttlMinutes,
	})
	if err != nil {
		return "", fmt.Errorf("encode mint body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, opts.baseURL+"/wbctx-mint", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build mint request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("mint: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return "", fmt.Errorf("mint: status %d: %s", res.StatusCode, bytes.TrimSpace(body))
	}
	var minted struct {
		CtxID string `json:"ctx_id"`
	}
	if err := json.NewDecoder(res.Body).Decode(&minted); err != nil {
		return "", fmt.Errorf("decode mint response: %w", err)
	}
	if minted.CtxID == "" {
		return "", fmt.Errorf("mint response has no ctx_id")
	}
	return minted.CtxID, nil
}

func redeemContext(ctx context.Context, opts options, ctxID string, wantStatus int) (*url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.baseURL+"/wbctx-redirect/"+ctxID, nil)
	if err != nil {
		return nil, fmt.Errorf("build redeem request: %w", err)
	}
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("redeem: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != wantStatus {
		return nil, fmt.Errorf("redeem: status %d, want %d", res.StatusCode, wantStatus)
	}
	if wantStatus != http.StatusFound {
		return nil, nil
	}
	loc, err := url.Parse(res.Header.Get("Location"))
	if err != nil {
		return nil, fmt.Errorf("parse redirect location: %w", err)
	}
	return loc, nil
}

func fetchContext(ctx context.Context, opts options, ctxID string) error {
	res, err := doGet(ctx, opts.baseURL+"/wbctx-fetch/"+ctxID)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("fetch: status %d: %s", res.StatusCode, bytes.TrimSpace(body))
	}
	var rec struct {
		ID    string `json:"id"`
		Token string `json:"token"`
		Sig   string `json:"sig"`
	}
	if err := json.NewDecoder(res.Body).Decode(&rec); err != nil {
		return fmt.Errorf("decode fetched record: %w", err)
	}
	if rec.ID != ctxID || rec.Token == "" || rec.Sig == "" {
		return fmt.Errorf("fetched record is incomplete: id=%q", rec.ID)
	}
	return nil
}

func doGet(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return http.DefaultClient.Do(req)
}

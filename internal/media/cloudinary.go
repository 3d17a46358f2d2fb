package media

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Cloudinary talks to the Cloudinary REST API (upload and destroy). Requests
// are signed with the account's API secret: the signature is the SHA-1 hex
// digest of the sorted signable parameters concatenated with the secret.
type Cloudinary struct {
	CloudName string
	APIKey    string
	APISecret string
	// BaseURL defaults to the public API endpoint; tests point it at a
	// local server.
	BaseURL string
	// HTTP defaults to a client with a 60s timeout (video uploads are slow).
	HTTP *http.Client
}

// NewCloudinary builds a client for the given account credentials.
func NewCloudinary(cloudName, apiKey, apiSecret string) *Cloudinary {
	return &Cloudinary{
		CloudName: cloudName,
		APIKey:    apiKey,
		APISecret: apiSecret,
		BaseURL:   "https://api.cloudinary.com/v1_1",
		HTTP:      &http.Client{Timeout: 60 * time.Second},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the file at path to the host and returns its asset reference.
func (c *Cloudinary) Upload(ctx context.Context, path string, kind Kind) (Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Asset{}, fmt.Errorf("open upload file: %w", err)
	}
	defer f.Close()

	ts := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{"timestamp": ts}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range params {
		_ = w.WriteField(k, v)
	}
	_ = w.WriteField("api_key", c.APIKey)
	_ = w.WriteField("signature", c.sign(params))
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return Asset{}, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return Asset{}, fmt.Errorf("read upload file: %w", err)
	}
	if err := w.Close(); err != nil {
		return Asset{}, err
	}

	url := fmt.Sprintf("%s/%s/%s/upload", c.BaseURL, c.CloudName, kind)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return Asset{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out uploadResponse
	if err := c.do(req, &out); err != nil {
		return Asset{}, err
	}
	if out.SecureURL == "" || out.PublicID == "" {
		return Asset{}, fmt.Errorf("media host: incomplete upload response")
	}
	return Asset{URL: out.SecureURL, PublicID: out.PublicID}, nil
}

type destroyResponse struct {
	Result string `json:"result"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Delete releases a previously uploaded asset. Deleting an already-deleted
// asset reports "not found" from the host, which is treated as success so
// cleanup paths can be retried.
func (c *Cloudinary) Delete(ctx context.Context, publicID string, kind Kind) error {
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{"public_id": publicID, "timestamp": ts}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range params {
		_ = w.WriteField(k, v)
	}
	_ = w.WriteField("api_key", c.APIKey)
	_ = w.WriteField("signature", c.sign(params))
	if err := w.Close(); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/%s/destroy", c.BaseURL, c.CloudName, kind)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out destroyResponse
	if err := c.do(req, &out); err != nil {
		return err
	}
	if out.Result != "ok" && out.Result != "not found" {
		return fmt.Errorf("media host: destroy %s: %s", publicID, out.Result)
	}
	return nil
}

func (c *Cloudinary) do(req *http.Request, out interface{}) error {
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("media host: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("media host: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("media host: status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("media host: decode response: %w", err)
	}
	return nil
}

// sign computes the request signature: sorted key=value pairs joined with
// '&', followed by the API secret, hashed with SHA-1.
func (c *Cloudinary) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.APISecret))
	return hex.EncodeToString(sum[:])
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package content

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golessonwriter/internal/domain"
)

// HTTPProvider talks to the hosted lesson service. Read and write paths are
// both thin JSON-over-HTTP; authentication is a bearer token from the OS
// keyring.
type HTTPProvider struct {
	BaseURL string
	Token   string
	client  *http.Client
}

// NewHTTPProvider creates a provider for the service at baseURL. A trailing
// slash is normalized away. insecure skips TLS verification for local
// development against self-signed instances.
func NewHTTPProvider(baseURL, token string, timeout time.Duration, insecure bool) *HTTPProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	cli := &http.Client{Timeout: timeout}
	if insecure {
		cli.Transport = &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}}
	}
	return &HTTPProvider{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		client:  cli,
	}
}

// pageEnvelope matches the server response for one page.
type pageEnvelope struct {
	ID      string             `json:"id"`
	Margins domain.Margins     `json:"margins"`
	Content domain.PageContent `json:"content"`
}

// FetchPage retrieves the page payload from the service.
func (p *HTTPProvider) FetchPage(ctx context.Context, pageID string) (domain.PageContent, error) {
	var env pageEnvelope
	if err := p.doJSON(ctx, http.MethodGet, "/api/pages/"+pageID, nil, &env); err != nil {
		return domain.PageContent{}, err
	}
	return env.Content, nil
}

// OnMarginsChanged pushes an interactive margin edit back to the service.
func (p *HTTPProvider) OnMarginsChanged(ctx context.Context, pageID string, m domain.Margins) error {
	return p.doJSON(ctx, http.MethodPut, "/api/pages/"+pageID+"/margins", m, nil)
}

func (p *HTTPProvider) doJSON(ctx context.Context, method, path string, body, dest any) error {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.BaseURL+path, rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if p.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.Token)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("content: server %s %s: %s", method, path, resp.Status)
	}
	if dest == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

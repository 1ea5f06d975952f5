/* Copyright 2026 Roster Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package images talks to the external media host that stores profile
// images. The host is a stateless collaborator: records only keep the
// returned id and url.
package images

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// uploadFolder namespaces profile images on the media host
const uploadFolder = "worker_images"

// Upload is the result of storing an image
type Upload struct {
	ID  string `json:"public_id"`
	URL string `json:"secure_url"`
}

// Store stores and deletes externally hosted images
type Store interface {
	Upload(ctx context.Context, filePath, name string) (Upload, error)
	Delete(ctx context.Context, id string) error
}

// Client is a Store backed by a Cloudinary-style HTTP media host
type Client struct {
	BaseURL string
	Key     string
	Secret  string
	HTTP    *http.Client
}

// NewClient returns a client for the media host at baseURL
func NewClient(baseURL, key, secret string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Key:     key,
		Secret:  secret,
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Upload sends the file at filePath to the media host and returns the
// hosted image's id and url
func (c *Client) Upload(ctx context.Context, filePath, name string) (Upload, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return Upload{}, errors.Wrap(err, "opening image file")
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	publicID := strings.TrimSuffix(name, filepath.Ext(name))
	if err := mw.WriteField("public_id", publicID); err != nil {
		return Upload{}, errors.Wrap(err, "writing public_id field")
	}
	if err := mw.WriteField("folder", uploadFolder); err != nil {
		return Upload{}, errors.Wrap(err, "writing folder field")
	}

	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return Upload{}, errors.Wrap(err, "creating form file")
	}
	if _, err := io.Copy(part, f); err != nil {
		return Upload{}, errors.Wrap(err, "copying file content")
	}
	if err := mw.Close(); err != nil {
		return Upload{}, errors.Wrap(err, "finalizing multipart body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/upload", &body)
	if err != nil {
		return Upload{}, errors.Wrap(err, "building upload request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.SetBasicAuth(c.Key, c.Secret)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return Upload{}, errors.Wrap(err, "performing upload request")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return Upload{}, errors.Errorf("media host returned %d", res.StatusCode)
	}

	var ret Upload
	if err := json.NewDecoder(res.Body).Decode(&ret); err != nil {
		return Upload{}, errors.Wrap(err, "decoding upload response")
	}

	return ret, nil
}

// Delete removes the hosted image with the given id. Deleting an id the
// host does not know is not an error.
func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}

	payload, err := json.Marshal(map[string]string{"public_id": id})
	if err != nil {
		return errors.Wrap(err, "encoding destroy payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/destroy", bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "building destroy request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.Key, c.Secret)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return errors.Wrap(err, "performing destroy request")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusNotFound {
		return errors.Errorf("media host returned %d", res.StatusCode)
	}

	return nil
}

// NoopStore is a Store that stores nothing. It is used when the media
// host is not configured.
type NoopStore struct{}

// Upload implements Store
func (s NoopStore) Upload(ctx context.Context, filePath, name string) (Upload, error) {
	return Upload{}, errors.New("image host is not configured")
}

// Delete implements Store
func (s NoopStore) Delete(ctx context.Context, id string) error {
	return nil
}

var _ Store = (*Client)(nil)
var _ Store = NoopStore{}

// String implements Stringer for logging
func (u Upload) String() string {
	return fmt.Sprintf("%s (%s)", u.ID, u.URL)
}

package receipt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

const defaultImgbbEndpoint = "https://api.imgbb.com/1/upload"

// ImgbbStore uploads receipts to imgbb and keeps the returned public URL.
type ImgbbStore struct {
	APIKey   string
	Endpoint string
	Client   *http.Client
}

// NewImgbbStore returns a store using the public imgbb endpoint.
func NewImgbbStore(apiKey string) *ImgbbStore {
	return &ImgbbStore{
		APIKey:   apiKey,
		Endpoint: defaultImgbbEndpoint,
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type imgbbResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Save implements Store.
func (s *ImgbbStore) Save(ctx context.Context, name, ext string, data []byte) (string, error) {
	if s.APIKey == "" {
		return "", errors.New("imgbb: api key not configured")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("name", name); err != nil {
		return "", err
	}
	fw, err := mw.CreateFormFile("image", name+"."+ext)
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(data); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	endpoint := s.Endpoint + "?key=" + url.QueryEscape(s.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("imgbb: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("imgbb: upload: %w", err)
	}
	defer resp.Body.Close()

	var out imgbbResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("imgbb: decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !out.Success || out.Data.URL == "" {
		return "", fmt.Errorf("imgbb: upload failed (status %d): %s", resp.StatusCode, out.Error.Message)
	}
	return out.Data.URL, nil
}

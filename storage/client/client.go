// Package client implements a storage driver backed by a remote kagodb
// server. It speaks the v1 REST bridge, which makes any kagodb instance a
// valid backend for another one.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mjunaidi/kagodb/storage"
)

type Client struct {
	base       string // e.g. http://localhost:8080/v1/collections/my-collection
	httpClient *http.Client
}

func New(base string, collectionName string) *Client {
	return &Client{
		base:       base + "/v1/collections/" + url.PathEscape(collectionName),
		httpClient: http.DefaultClient,
	}
}

func (c *Client) WithHttpClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

func (c *Client) Index(ctx context.Context) ([]string, error) {

	resp, err := c.do(ctx, "POST", ":keys", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, remoteError(resp)
	}

	keys := []string{}
	err = json.NewDecoder(resp.Body).Decode(&keys)
	if err != nil {
		return nil, fmt.Errorf("decode keys: %w", err)
	}

	return keys, nil
}

func (c *Client) Read(ctx context.Context, id string) (storage.Item, error) {

	resp, err := c.do(ctx, "GET", "/documents/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("read '%s': %w", id, storage.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, remoteError(resp)
	}

	item := storage.Item{}
	err = json.NewDecoder(resp.Body).Decode(&item)
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	return item, nil
}

func (c *Client) Write(ctx context.Context, id string, item storage.Item) error {

	body, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	resp, err := c.do(ctx, "PUT", "/documents/"+url.PathEscape(id), body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return remoteError(resp)
	}

	return nil
}

func (c *Client) Erase(ctx context.Context, id string) error {

	resp, err := c.do(ctx, "DELETE", "/documents/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("erase '%s': %w", id, storage.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return remoteError(resp)
	}

	return nil
}

func (c *Client) Exist(ctx context.Context, id string) (bool, error) {

	resp, err := c.do(ctx, "HEAD", "/documents/"+url.PathEscape(id), nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	}

	return false, remoteError(resp)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {

	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	return resp, nil
}

func remoteError(resp *http.Response) error {

	payload := struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}{}
	json.NewDecoder(resp.Body).Decode(&payload)

	if payload.Error.Message != "" {
		return fmt.Errorf("remote: %s (status %d)", payload.Error.Message, resp.StatusCode)
	}

	return fmt.Errorf("remote: unexpected status %d", resp.StatusCode)
}

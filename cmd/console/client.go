package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"rmf-policy-be/pkg/stream"

	"github.com/rotisserie/eris"
)

type client struct {
	baseURL string
	userID  string
	token   string
	http    *http.Client
}

func (c *client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.baseURL, "/")+path, body)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.userID != "" {
		req.Header.Set("X-User-Id", c.userID)
	}
	return req, nil
}

// Send posts one message and writes the visible part of the reply to out
// as it streams in. It returns the sample answer, if the reply carried one.
func (c *client) Send(ctx context.Context, content string, out io.Writer) (string, error) {
	payload, _ := json.Marshal(map[string]string{"content": content})
	req, err := c.newRequest(ctx, http.MethodPost, "/api/chat/v1", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "send message")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", eris.Errorf("server returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	return relay(resp.Body, out)
}

// relay copies the stream to out, holding back anything that could be the
// start of the sample answer marker.
func relay(r io.Reader, out io.Writer) (string, error) {
	var received strings.Builder
	printed := 0
	buf := make([]byte, 512)

	for {
		n, err := r.Read(buf)
		if n > 0 {
			received.Write(buf[:n])
			text := received.String()

			limit := strings.Index(text, stream.SampleOpen)
			if limit < 0 {
				limit = len(text) - len(stream.SampleOpen)
			}
			if limit > printed {
				fmt.Fprint(out, text[printed:limit])
				printed = limit
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", eris.Wrap(err, "read reply stream")
		}
	}

	visible, sample := stream.SplitSample(received.String())
	if printed < len(visible) {
		fmt.Fprint(out, visible[printed:])
	}
	return sample, nil
}

func (c *client) Checklist(ctx context.Context) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/policy/v1/checklist", nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "fetch checklist")
	}
	defer resp.Body.Close()

	var res struct {
		Message string `json:"message"`
		Data    struct {
			Checklist string `json:"checklist"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", eris.Wrap(err, "decode checklist")
	}
	if resp.StatusCode != http.StatusOK {
		return "", eris.Errorf("server returned %s: %s", resp.Status, res.Message)
	}
	return res.Data.Checklist, nil
}

// RenderPDF uploads policy markdown (and an optional PNG logo) and returns
// the PDF bytes.
func (c *client) RenderPDF(ctx context.Context, policyMD string, logo []byte) ([]byte, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("policy_md", policyMD); err != nil {
		return nil, err
	}
	if len(logo) > 0 {
		fw, err := w.CreateFormFile("logo", "logo.png")
		if err != nil {
			return nil, err
		}
		if _, err := fw.Write(logo); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/policy/v1/pdf", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "render pdf")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "read pdf")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("server returned %s: %s", resp.Status, strings.TrimSpace(string(data)))
	}
	return data, nil
}

package pingback

import (
	"bytes"
	"context"
	"encoding/xml"
	"net/http"
	"net/url"
	"strings"
)

type TrackbackPing struct {
	Title    string `json:"title"`
	Excerpt  string `json:"excerpt"`
	URL      string `json:"url" binding:"required,url"`
	BlogName string `json:"blog_name"`
}

func (p TrackbackPing) form() url.Values {

	values := url.Values{}
	values.Set("title", p.Title)
	values.Set("excerpt", p.Excerpt)
	values.Set("url", p.URL)
	values.Set("blog_name", p.BlogName)

	return values
}

type trackbackResponse struct {
	XMLName xml.Name `xml:"response"`
	Error   string   `xml:"error"`
	Message string   `xml:"message"`
}

// Trackback sends ping to the trackback endpoint tbURL.
func (n *Notifier) Trackback(ctx context.Context, tbURL string, ping TrackbackPing) error {

	u, err := url.Parse(tbURL)
	if err != nil || u.Host == "" {
		return newFault(tbURL, FaultTargetNotFound)
	}

	payload := ping.form().Encode()

	resp, err := n.do(ctx, u.Host, func() (*http.Request, error) {

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, tbURL, strings.NewReader(payload))
		if err != nil {
			return nil, err
		}

		req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")
		return req, nil
	})
	if err != nil || resp.StatusCode >= http.StatusBadRequest {
		return newFault(tbURL, FaultTargetNotFound)
	}

	var result trackbackResponse
	if err := xml.NewDecoder(bytes.NewReader(resp.Body)).Decode(&result); err != nil {
		return newFault(tbURL, FaultUpstream)
	}

	if strings.TrimSpace(result.Error) != "0" {
		fault := newFault(tbURL, FaultGeneric)
		fault.Message = strings.TrimSpace(result.Message)
		return fault
	}

	return nil
}

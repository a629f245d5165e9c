package compose

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultURL is the koji listing of Rawhide composes
const DefaultURL = "https://kojipkgs.fedoraproject.org/compose/rawhide/"

// Client reads compose directory listings
type Client struct {
	URL  string
	HTTP *http.Client
	// Now is the clock used for day cutoffs
	Now func() time.Time
}

// NewClient creates a client for the listing at url
func NewClient(url string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		URL:  url,
		HTTP: newSecureHTTPClient(),
		Now:  time.Now,
	}
}

func newSecureHTTPClient() *http.Client {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		ForceAttemptHTTP2: true,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   30 * time.Second,
	}
}

// List fetches the listing and returns every Fedora-Rawhide entry
func (c *Client) List(ctx context.Context) ([]Dir, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, err
	}

	logrus.Debugf("Fetching compose listing %s", c.URL)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", c.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: bad status: %s", c.URL, resp.Status)
	}

	return parseListing(resp.Body)
}

// Recent returns the entries of the last daysAgo days
func (c *Client) Recent(ctx context.Context, daysAgo int) ([]Dir, error) {
	dirs, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByDaysAgo(dirs, daysAgo, c.Now()), nil
}

// parseListing collects anchors whose text names a Rawhide compose
func parseListing(r io.Reader) ([]Dir, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}

	var dirs []Dir
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			text := nodeText(n)
			if strings.Contains(text, DefaultName) {
				dir, err := ParseDirName(text)
				if err != nil {
					logrus.Warnf("Ignoring listing entry: %v", err)
				} else {
					dirs = append(dirs, dir)
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return dirs, nil
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(n)
	return b.String()
}

package enrich

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// ParseMetadata walks an HTML document and pulls out the title,
// description and favicon. OpenGraph values win over the plain tags;
// relative favicon hrefs are resolved against base.
func ParseMetadata(r io.Reader, base *url.URL) (*Metadata, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var meta Metadata
	var plainTitle string
	var iconHref string
	var ogTitle, ogDescription string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if n.FirstChild != nil && plainTitle == "" {
					plainTitle = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				name := attr(n, "name")
				property := attr(n, "property")
				content := strings.TrimSpace(attr(n, "content"))
				switch {
				case property == "og:title" && content != "":
					ogTitle = content
				case property == "og:description" && content != "":
					ogDescription = content
				case name == "description" && content != "" && meta.Description == "":
					meta.Description = content
				}
			case "link":
				rel := strings.ToLower(attr(n, "rel"))
				if (rel == "icon" || rel == "shortcut icon" || rel == "apple-touch-icon") && iconHref == "" {
					iconHref = attr(n, "href")
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	meta.Title = plainTitle
	if ogTitle != "" {
		meta.Title = ogTitle
	}
	if ogDescription != "" {
		meta.Description = ogDescription
	}

	if iconHref != "" {
		meta.FaviconURL = resolveRef(base, iconHref)
	} else if base != nil {
		// Fall back to the conventional location.
		meta.FaviconURL = resolveRef(base, "/favicon.ico")
	}

	return &meta, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

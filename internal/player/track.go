package player

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"go.senan.xyz/taglib"
)

// Track describes what is currently playing, for display purposes only.
type Track struct {
	Name   string
	Artist string
	URI    string
}

// trackForURI builds a Track for a queue entry. Local files are tagged with
// taglib; anything else falls back to the last path segment of the URI.
func trackForURI(uri string) Track {
	track := Track{URI: uri}

	if localPath, ok := localPathForURI(uri); ok {
		if tags, err := taglib.ReadTags(localPath); err == nil {
			track.Name = firstTagValue(tags, taglib.Title, "TITLE")
			track.Artist = firstTagValue(tags, taglib.Artist, "ARTIST")
		}
		if track.Name == "" {
			track.Name = strings.TrimSuffix(filepath.Base(localPath), filepath.Ext(localPath))
		}
		return track
	}

	track.Name = fallbackName(uri)
	return track
}

// localPathForURI reports the filesystem path for file:// URIs and bare paths.
func localPathForURI(uri string) (string, bool) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil || parsed.Path == "" {
			return "", false
		}
		return parsed.Path, true
	}

	if !strings.Contains(uri, "://") {
		return uri, true
	}

	return "", false
}

func fallbackName(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Path == "" || parsed.Path == "/" {
		return uri
	}

	name := path.Base(parsed.Path)
	if name == "" || name == "." || name == "/" {
		return uri
	}

	return name
}

func firstTagValue(tags map[string][]string, keys ...string) string {
	for _, key := range keys {
		values, ok := tags[key]
		if !ok {
			continue
		}
		for _, value := range values {
			trimmed := strings.TrimSpace(value)
			if trimmed != "" {
				return trimmed
			}
		}
	}

	return ""
}

package bridge

import (
	"strings"

	"remo/internal/player"
)

// DescribeTrack renders the wire text for a track: "Artist - Title", or the
// title alone when the artist is unknown.
func DescribeTrack(track player.Track) string {
	name := strings.TrimSpace(track.Name)
	if name == "" {
		name = track.URI
	}

	artist := strings.TrimSpace(track.Artist)
	if artist == "" {
		return name
	}

	return artist + " - " + name
}

// DescribeStream normalizes a raw stream title. Icecast convention puts
// "artist - title" in one string with loose whitespace.
func DescribeStream(title string) string {
	artist, name, found := strings.Cut(title, " - ")
	if !found {
		return strings.TrimSpace(title)
	}

	artist = strings.TrimSpace(artist)
	name = strings.TrimSpace(name)
	if artist == "" {
		return name
	}
	if name == "" {
		return artist
	}

	return artist + " - " + name
}

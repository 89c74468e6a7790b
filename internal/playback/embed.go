package playback

import "net/url"

const embedBase = "https://www.youtube.com/embed/"

// EmbedURL builds the surface source for a media id and/or collection id.
//
// A media id with a collection plays the collection in order starting at the
// media id; a media id alone loops that item; a collection alone is embedded
// as an auto-advancing series. Without either an empty string is returned and
// no surface should be created.
func EmbedURL(mediaID, collectionID string) string {
	query := url.Values{}
	query.Set("enablejsapi", "1")
	query.Set("autoplay", "1")

	switch {
	case mediaID != "" && collectionID != "":
		query.Set("list", collectionID)
		return embedBase + url.PathEscape(mediaID) + "?" + query.Encode()
	case mediaID != "":
		query.Set("loop", "1")
		query.Set("playlist", mediaID)
		return embedBase + url.PathEscape(mediaID) + "?" + query.Encode()
	case collectionID != "":
		query.Set("listType", "playlist")
		query.Set("list", collectionID)
		query.Set("loop", "1")
		return embedBase + "videoseries?" + query.Encode()
	default:
		return ""
	}
}

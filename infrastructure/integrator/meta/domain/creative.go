package domain

// Ad couples an ad id with its creative, as returned by the /ads endpoint
// with a creative field expansion.
type Ad struct {
	ID       string   `json:"id"`
	Creative Creative `json:"creative"`
}

type Creative struct {
	ID              string     `json:"id"`
	ThumbnailURL    string     `json:"thumbnail_url"`
	ImageURL        string     `json:"image_url"`
	ImageHash       string     `json:"image_hash"`
	VideoID         string     `json:"video_id"`
	ObjectType      string     `json:"object_type"`
	ObjectStorySpec *StorySpec `json:"object_story_spec"`
	AssetFeedSpec   *FeedSpec  `json:"asset_feed_spec"`
}

type StorySpec struct {
	VideoData *VideoData `json:"video_data"`
	LinkData  *LinkData  `json:"link_data"`
	PhotoData *PhotoData `json:"photo_data"`
}

type VideoData struct {
	VideoID string `json:"video_id"`
}

type LinkData struct {
	Picture   string `json:"picture"`
	ImageHash string `json:"image_hash"`
}

type PhotoData struct {
	URL string `json:"url"`
}

type FeedSpec struct {
	Images []FeedImage `json:"images"`
	Videos []FeedVideo `json:"videos"`
}

type FeedImage struct {
	Hash string `json:"hash"`
}

type FeedVideo struct {
	VideoID string `json:"video_id"`
}

type AdsResponse struct {
	Data   []Ad   `json:"data"`
	Paging Paging `json:"paging"`
}

// Video is the metadata of an uploaded ad video, including the downloadable
// source URL while the token has access to it.
type Video struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Source     string  `json:"source"`
	Length     float64 `json:"length"`
	Thumbnails struct {
		Data []VideoThumbnail `json:"data"`
	} `json:"thumbnails"`
}

type VideoThumbnail struct {
	URI string `json:"uri"`
}

type AdImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Name   string `json:"name"`
}

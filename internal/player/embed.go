package player

// EmbedHost is the privacy-enhanced origin the widget is loaded from.
const EmbedHost = "https://www.youtube-nocookie.com"

// Config is fixed for the lifetime of a session.
type Config struct {
	Autoplay        bool `json:"autoplay"`
	Loop            bool `json:"loop"`
	ShowControls    bool `json:"show_controls"`
	AllowFullscreen bool `json:"allow_fullscreen"`
	RelatedVideos   bool `json:"related_videos"`
}

func DefaultConfig() Config {
	return Config{
		Autoplay:        true,
		Loop:            true,
		ShowControls:    true,
		AllowFullscreen: true,
		RelatedVideos:   false,
	}
}

type PlayerVars struct {
	Autoplay int    `json:"autoplay"`
	Loop     int    `json:"loop"`
	Playlist string `json:"playlist,omitempty"`
	Controls int    `json:"controls"`
	FS       int    `json:"fs"`
	Rel      int    `json:"rel"`
}

// EmbedOptions is what the page needs to construct the widget.
type EmbedOptions struct {
	VideoID    string     `json:"video_id"`
	Host       string     `json:"host"`
	Mute       bool       `json:"mute"`
	PlayerVars PlayerVars `json:"player_vars"`
}

func (c Config) EmbedOptions(videoID string) EmbedOptions {
	opts := EmbedOptions{
		VideoID: videoID,
		Host:    EmbedHost,
		PlayerVars: PlayerVars{
			Autoplay: flag(c.Autoplay),
			Loop:     flag(c.Loop),
			Controls: flag(c.ShowControls),
			FS:       flag(c.AllowFullscreen),
			Rel:      flag(c.RelatedVideos),
		},
	}

	// a single looping video has to be its own playlist
	if c.Loop {
		opts.PlayerVars.Playlist = videoID
	}

	return opts
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

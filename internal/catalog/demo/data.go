package demo

import (
	"time"

	"github.com/tessro/clickwheel/internal/core"
)

func track(id, title, artist, album, art, uri string, seconds int, preview string) core.Track {
	return core.Track{
		ID:         id,
		URI:        uri,
		Title:      title,
		Artist:     artist,
		Artists:    []string{artist},
		Album:      album,
		AlbumArt:   art,
		Duration:   time.Duration(seconds) * time.Second,
		PreviewURL: preview,
		Source:     core.SourceDemo,
	}
}

var tracks = []core.Track{
	track("demo-1", "Bohemian Rhapsody", "Queen", "A Night at the Opera",
		"https://i.scdn.co/image/ab67616d0000b273ce4f1737bc8a646c8c4bd25a",
		"demo:track:1", 354,
		"https://p.scdn.co/mp3-preview/9b1a4c7e0ca5ff5c17bb2e9c3d49ccb3f1c2d7b0"),
	track("demo-2", "Stairway to Heaven", "Led Zeppelin", "Led Zeppelin IV",
		"https://i.scdn.co/image/ab67616d0000b273c8a11e48c91a982d086afc69",
		"demo:track:2", 482,
		"https://p.scdn.co/mp3-preview/8b1e6c7e0ca5ff5c17bb2e9c3d49ccb3f1c2d7b1"),
	track("demo-3", "Hotel California", "Eagles", "Hotel California",
		"https://i.scdn.co/image/ab67616d0000b2734637341b9f507521afa9a778",
		"demo:track:3", 391,
		"https://p.scdn.co/mp3-preview/7c1e6c7e0ca5ff5c17bb2e9c3d49ccb3f1c2d7b2"),
	track("demo-4", "Imagine", "John Lennon", "Imagine",
		"https://i.scdn.co/image/ab67616d0000b2736e3159c3db9f8a4f8f0a4eb8",
		"demo:track:4", 183,
		"https://p.scdn.co/mp3-preview/6d1e6c7e0ca5ff5c17bb2e9c3d49ccb3f1c2d7b3"),
	track("demo-5", "Sweet Child O' Mine", "Guns N' Roses", "Appetite for Destruction",
		"https://i.scdn.co/image/ab67616d0000b273d3bfc3ca97a94cab0c6712f1",
		"demo:track:5", 356,
		"https://p.scdn.co/mp3-preview/5e1e6c7e0ca5ff5c17bb2e9c3d49ccb3f1c2d7b4"),
	track("demo-6", "Billie Jean", "Michael Jackson", "Thriller",
		"https://i.scdn.co/image/ab67616d0000b2735ef878a782c987d38d82b605",
		"demo:track:6", 294,
		"https://p.scdn.co/mp3-preview/4f1e6c7e0ca5ff5c17bb2e9c3d49ccb3f1c2d7b5"),
	track("demo-7", "Smells Like Teen Spirit", "Nirvana", "Nevermind",
		"https://i.scdn.co/image/ab67616d0000b273e175a19e530c898d167d39bf",
		"demo:track:7", 301,
		"https://p.scdn.co/mp3-preview/3g1e6c7e0ca5ff5c17bb2e9c3d49ccb3f1c2d7b6"),
	track("demo-8", "Wonderwall", "Oasis", "(What's the Story) Morning Glory?",
		"https://i.scdn.co/image/ab67616d0000b273ca11d58fbbde2c3f5b70bbac",
		"demo:track:8", 258,
		"https://p.scdn.co/mp3-preview/2h1e6c7e0ca5ff5c17bb2e9c3d49ccb3f1c2d7b7"),
	track("demo-9", "Bohemian Like You", "The Dandy Warhols", "Thirteen Tales from Urban Bohemia",
		"https://i.scdn.co/image/ab67616d0000b273f7e9e24e7622b9e30f6ae7ef",
		"demo:track:9", 208,
		"https://p.scdn.co/mp3-preview/1i1e6c7e0ca5ff5c17bb2e9c3d49ccb3f1c2d7b8"),
	track("demo-10", "Don't Stop Believin'", "Journey", "Escape",
		"https://i.scdn.co/image/ab67616d0000b2733fd4bb14d9a1352c7cea2576",
		"demo:track:10", 250,
		"https://p.scdn.co/mp3-preview/0j1e6c7e0ca5ff5c17bb2e9c3d49ccb3f1c2d7b9"),
}

var playlists = []core.Playlist{
	{ID: "demo-playlist-1", Name: "Classic Rock Hits", ImageURL: "https://i.scdn.co/image/ab67706f00000002ca5a7517156021292926a638", TrackCount: 5},
	{ID: "demo-playlist-2", Name: "Throwback Jams", ImageURL: "https://i.scdn.co/image/ab67706f00000002b0ad93e3a90b4e0e16ecd1e0", TrackCount: 3},
	{ID: "demo-playlist-3", Name: "Road Trip Mix", ImageURL: "https://i.scdn.co/image/ab67706f00000002e342e65c7b71c1c77c4e1c2f", TrackCount: 4},
}

var artists = []core.Artist{
	{ID: "demo-artist-1", Name: "Queen", ImageURL: "https://i.scdn.co/image/b040846ceba13c3e9c125d68389491094e7f2982"},
	{ID: "demo-artist-2", Name: "Led Zeppelin", ImageURL: "https://i.scdn.co/image/207803ce008388d3427a685254f9de6a8f61dc2e"},
	{ID: "demo-artist-3", Name: "Eagles", ImageURL: "https://i.scdn.co/image/ab6761610000e5eb8eb0c42838cea21ff9d0a4f3"},
}

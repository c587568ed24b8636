package transcribe

import "testing"

func TestMIMEType(t *testing.T) {
	cases := map[string]string{
		"a.mp3":        "audio/mpeg",
		"A.MP3":        "audio/mpeg",
		"b.wav":        "audio/wav",
		"c.m4a":        "audio/mp4",
		"c.m4v":        "audio/mp4",
		"d.flac":       "audio/flac",
		"e.aac":        "audio/aac",
		"f.ogg":        "audio/ogg",
		"g.webm":       "audio/webm",
		"weird.xyz":    "audio/mpeg",
		"no_extension": "audio/mpeg",
	}
	for path, want := range cases {
		if got := MIMEType(path); got != want {
			t.Errorf("MIMEType(%q) = %s, want %s", path, got, want)
		}
	}
}

func TestExtForMIME(t *testing.T) {
	cases := map[string]string{
		"audio/wav":         ".wav",
		"audio/mp4":         ".m4a",
		"audio/mpeg":        ".mp3",
		"application/other": ".mp3",
	}
	for mt, want := range cases {
		if got := extForMIME(mt); got != want {
			t.Errorf("extForMIME(%q) = %s, want %s", mt, got, want)
		}
	}
}

package settings

import (
	"sync"
	"testing"
)

func TestDefaults(t *testing.T) {
	s := NewDefault()
	if got := s.String("facebook", "lang"); got != "en_GB" {
		t.Errorf("facebook.lang = %q, want %q", got, "en_GB")
	}
	if got := s.String("twitter", "lang"); got != "en" {
		t.Errorf("twitter.lang = %q, want %q", got, "en")
	}
	if got := s.String("linkedin", "lang"); got != "" {
		t.Errorf("unknown network lang = %q, want empty", got)
	}
}

func TestSetupKeepsSiblings(t *testing.T) {
	s := NewDefault()
	if err := s.Setup(map[string]any{
		"facebook": map[string]any{"appId": "12345"},
	}); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	if got := s.String("facebook", "appId"); got != "12345" {
		t.Errorf("facebook.appId = %q, want %q", got, "12345")
	}
	if got := s.String("facebook", "lang"); got != "en_GB" {
		t.Errorf("facebook.lang = %q, want sibling kept as %q", got, "en_GB")
	}
	if got := s.String("twitter", "lang"); got != "en" {
		t.Errorf("twitter.lang = %q, want untouched %q", got, "en")
	}
}

func TestSetupDottedAndStringMaps(t *testing.T) {
	s := NewDefault()
	if err := s.Setup(map[string]any{
		"twitter.onclick": "trackClick",
		"googleplus":      map[string]string{"lang": "de"},
	}); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if got := s.String("twitter", "onclick"); got != "trackClick" {
		t.Errorf("twitter.onclick = %q", got)
	}
	if got := s.String("twitter", "lang"); got != "en" {
		t.Errorf("twitter.lang = %q, want %q", got, "en")
	}
	if got := s.String("googleplus", "lang"); got != "de" {
		t.Errorf("googleplus.lang = %q, want %q", got, "de")
	}
}

func TestSetupMixedDottedAndNested(t *testing.T) {
	for i := 0; i < 50; i++ {
		s := NewDefault()
		if err := s.Setup(map[string]any{
			"twitter.onclick": "clicked",
			"twitter":         map[string]any{"ontweet": "tweeted"},
		}); err != nil {
			t.Fatalf("Setup: %v", err)
		}
		if got := s.String("twitter", "onclick"); got != "clicked" {
			t.Fatalf("run %d: twitter.onclick = %q, want %q", i, got, "clicked")
		}
		if got := s.String("twitter", "ontweet"); got != "tweeted" {
			t.Fatalf("run %d: twitter.ontweet = %q, want %q", i, got, "tweeted")
		}
		if got := s.String("twitter", "lang"); got != "en" {
			t.Fatalf("run %d: twitter.lang = %q, want %q", i, got, "en")
		}
	}
}

func TestNetworkCopy(t *testing.T) {
	s := NewDefault()
	fb := s.Network("facebook")
	if fb["lang"] != "en_GB" {
		t.Errorf("Network(facebook)[lang] = %v", fb["lang"])
	}
	fb["lang"] = "mutated"
	if got := s.String("facebook", "lang"); got != "en_GB" {
		t.Errorf("mutating the copy changed settings: %q", got)
	}
	if got := s.Network("missing"); len(got) != 0 {
		t.Errorf("Network(missing) = %v, want empty", got)
	}
}

func TestConcurrentSetupAndRead(t *testing.T) {
	s := NewDefault()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Setup(map[string]any{"twitter": map[string]any{"via": "me"}})
		}()
		go func() {
			defer wg.Done()
			_ = s.String("facebook", "lang")
		}()
	}
	wg.Wait()
	if got := s.String("twitter", "via"); got != "me" {
		t.Errorf("twitter.via = %q", got)
	}
}

package i18n

import "testing"

func TestNormalize(t *testing.T) {
	if got := Normalize("").Code(); got != DefaultLanguage.Code() {
		t.Fatalf("empty normalize should fall back to default, got %q", got)
	}
	if got := Normalize("EN-us"); got != LanguageEnglish {
		t.Fatalf("expected english normalization, got %q", got)
	}
	if got := Normalize("zh_CN"); got != LanguageChinese {
		t.Fatalf("expected chinese normalization, got %q", got)
	}
	if got := Normalize("ja"); got != Language("ja") {
		t.Fatalf("expected passthrough for unknown language, got %q", got)
	}
}

func TestDisplayName(t *testing.T) {
	if name := LanguageChinese.DisplayName(); name != "中文" {
		t.Fatalf("unexpected chinese display name: %q", name)
	}
	if name := LanguageEnglish.DisplayName(); name != "English" {
		t.Fatalf("unexpected english display name: %q", name)
	}
	if name := Language("ja").DisplayName(); name != "ja" {
		t.Fatalf("unexpected passthrough display name: %q", name)
	}
}

func TestStrings(t *testing.T) {
	zh := LanguageChinese.Strings()
	if zh["chatlist.pinned"] != "置顶" {
		t.Fatalf("unexpected chinese label: %q", zh["chatlist.pinned"])
	}
	zh["chatlist.pinned"] = "changed"
	if LanguageChinese.Strings()["chatlist.pinned"] != "置顶" {
		t.Fatalf("Strings should return a copy")
	}
	if Language("ja").Strings() != nil || Language("ja").Supported() {
		t.Fatalf("unknown language should have no catalog")
	}
	en := LanguageEnglish.Strings()
	for key := range zh {
		if _, ok := en[key]; !ok {
			t.Fatalf("english catalog missing %q", key)
		}
	}
}

package suppress

import "testing"

func TestBareMarkerSuppressesAll(t *testing.T) {
	ix := Build("{# craftlint-disable-next-line #}\n{{ entry.body | raw }}\n")
	if !ix.Suppressed(2, "xss-raw-output") {
		t.Fatal("bare marker should suppress every rule on the next line")
	}
	if !ix.Suppressed(2, "n-plus-one") {
		t.Fatal("bare marker should suppress every rule on the next line")
	}
	if ix.Suppressed(1, "xss-raw-output") || ix.Suppressed(3, "xss-raw-output") {
		t.Fatal("suppression must only cover the line after the marker")
	}
}

func TestTaggedMarkerIsSelective(t *testing.T) {
	ix := Build("{# craftlint-disable-next-line missing-limit, dump-call #}\nx\n")
	if !ix.Suppressed(2, "missing-limit") || !ix.Suppressed(2, "dump-call") {
		t.Fatal("listed tags should be suppressed")
	}
	if ix.Suppressed(2, "xss-raw-output") {
		t.Fatal("unlisted tags must stay active")
	}
}

func TestPrefixedAndAliasTags(t *testing.T) {
	ix := Build("{# craftlint-disable-next-line template/n+1, security/xss-raw-output #}\nx\n")
	if !ix.Suppressed(2, "n-plus-one") {
		t.Fatal("template/n+1 should normalize to n-plus-one")
	}
	if !ix.Suppressed(2, "xss-raw-output") {
		t.Fatal("security/ prefix should be stripped")
	}
}

func TestCommentCloserDoesNotBecomeATag(t *testing.T) {
	ix := Build("{# craftlint-disable-next-line missing-limit #}\nx\n")
	if ix.Suppressed(2, "#}") {
		t.Fatal("comment closer leaked into the tag set")
	}
	if !ix.Suppressed(2, "missing-limit") {
		t.Fatal("tag before the closer should survive")
	}
}

func TestAllJunkTagListIsNotASuppression(t *testing.T) {
	// a tag list that parses to nothing must stay an ordinary comment, not
	// degrade into a bare suppress-all marker
	ix := Build("{# craftlint-disable-next-line please ignore this #}\n{{ dump(x) }}\n")
	if ix.Suppressed(2, "dump-call") {
		t.Fatal("unparseable tag list suppressed the next line")
	}
	if ix.Suppressed(2, "missing-limit") {
		t.Fatal("unparseable tag list suppressed the next line")
	}
}

func TestMalformedTagListDropsJunk(t *testing.T) {
	ix := Build("{# craftlint-disable-next-line this is not a tag, missing-limit #}\nx\n")
	if !ix.Suppressed(2, "missing-limit") {
		t.Fatal("valid tag among junk should still apply")
	}
	if ix.Suppressed(2, "dump-call") {
		t.Fatal("junk tokens must not widen the suppression")
	}
}

func TestMarkerOnLastLine(t *testing.T) {
	ix := Build("x\n{# craftlint-disable-next-line #}")
	if !ix.Suppressed(3, "anything") {
		t.Fatal("marker on the final line still records the following line number")
	}
}

package parser

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Store Location":    "storelocation",
		"store_location":    "storelocation",
		"storelocation":     "storelocation",
		"  Pizza\tName ":    "pizzaname",
		"PRODUCT__DETAIL":   "productdetail",
		"":                  "",
		"Unit Price":        "unitprice",
		"Total Price (USD)": "totalprice(usd)",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q) got=%q want=%q", in, got, want)
		}
		if again := Normalize(Normalize(in)); again != want {
			t.Fatalf("Normalize not idempotent for %q: got=%q", in, again)
		}
	}
}

func TestIsNumericText(t *testing.T) {
	t.Parallel()

	numeric := []string{"", "12", "12.50", "-3", "1e3", "0x1F", " 7 "}
	for _, s := range numeric {
		if !isNumericText(s) {
			t.Fatalf("isNumericText(%q) got=false want=true", s)
		}
	}
	text := []string{"Margherita", "12 pcs", "NaN", "abc1"}
	for _, s := range text {
		if isNumericText(s) {
			t.Fatalf("isNumericText(%q) got=true want=false", s)
		}
	}
}

func TestLooksLikeName(t *testing.T) {
	t.Parallel()

	if !looksLikeName("Latte") {
		t.Fatalf("Latte should look like a name")
	}
	for _, s := range []string{"", "ab", "1234", "12.5"} {
		if looksLikeName(s) {
			t.Fatalf("looksLikeName(%q) got=true want=false", s)
		}
	}
}

package wbctx

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CanonicalSchemaVersion identifies the canonical field set below. The
// signature of every in-flight context was computed against this exact
// set and order; adding or removing a field requires a version bump.
const CanonicalSchemaVersion = 1

// CanonicalV1 renders the signed subset of a context record as a
// deterministic JSON object: fields api, apikey, brand_id, ephemeral,
// exp, news_slug, page_id, slug, token, in that order. The sig and pub
// fields (and the short id) are not part of the signed contract.
func CanonicalV1(rec *ContextRecord) []byte {
	var b bytes.Buffer
	b.WriteByte('{')
	writeField(&b, "api", rec.API)
	b.WriteByte(',')
	writeField(&b, "apikey", rec.APIKey)
	b.WriteByte(',')
	writeField(&b, "brand_id", rec.BrandID)
	b.WriteByte(',')
	writeField(&b, "ephemeral", rec.Ephemeral)
	b.WriteByte(',')
	writeField(&b, "exp", rec.Exp)
	b.WriteByte(',')
	writeField(&b, "news_slug", rec.NewsSlug)
	b.WriteByte(',')
	writeField(&b, "page_id", rec.PageID)
	b.WriteByte(',')
	writeField(&b, "slug", rec.Slug)
	b.WriteByte(',')
	writeField(&b, "token", rec.Token)
	b.WriteByte('}')
	return b.Bytes()
}

func writeField(b *bytes.Buffer, name string, v any) {
	b.WriteByte('"')
	b.WriteString(name)
	b.WriteString(`":`)
	enc, err := json.Marshal(v)
	if err != nil {
		// only strings, bools, ints and nil pointers reach here
		panic(fmt.Sprintf("canonical encode %s: %v", name, err))
	}
	b.Write(enc)
}

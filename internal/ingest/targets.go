package ingest

import (
	"bufio"
	"encoding/csv"
	"io"
	"net/url"
	"strings"
)

// ParseTargets splits a comma separated list of post URLs. Blank entries are
// dropped. Entries that are not absolute http(s) URLs are returned in rejected
// (fail-soft) so the caller can report them.
func ParseTargets(raw string) (targets []string, rejected []string) {
	r := csv.NewReader(stripBOM(strings.NewReader(raw)))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}
		for _, field := range record {
			target := strings.TrimSpace(field)
			if target == "" {
				continue
			}
			if !isPostURL(target) {
				rejected = append(rejected, target)
				continue
			}
			targets = append(targets, target)
		}
	}
	return targets, rejected
}

func isPostURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	rdr, _, err := br.ReadRune()
	if err != nil {
		return br
	}
	if rdr != '\uFEFF' {
		br.UnreadRune()
	}
	return br
}

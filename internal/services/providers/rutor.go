package providers

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/amaumene/videosync/internal/models"
)

var torrentIDRegex = regexp.MustCompile(`/torrent/(\d+)`)

// RutorClient scrapes the release listing of the torrent index
type RutorClient struct {
	http *httpFetcher
	host string
}

// Origin returns the provider tag
func (c *RutorClient) Origin() models.Origin {
	return models.OriginRutor
}

// Fetch scrapes one listing page into raw release records
func (c *RutorClient) Fetch(ctx context.Context, query Query) ([]models.RawRecord, error) {
	body, err := c.http.get(ctx, "", nil)
	if err != nil {
		return nil, err
	}

	records, err := c.parseListing(body)
	if err != nil {
		return nil, err
	}
	if query.Limit > 0 && len(records) > query.Limit {
		records = records[:query.Limit]
	}

	c.http.logger.WithField("origin", models.OriginRutor).WithField("count", len(records)).Debug("Scraped releases")
	return records, nil
}

// parseListing reads rows shaped like
//
//	<tr class="gai"><td>date</td><td><a class="downgif" href="/download/ID"/><a href="magnet:..."/>
//	<a href="/torrent/ID/slug">release name</a></td>...<td>size</td>
//	<td><span class="green">seed</span><span class="red">leech</span></td></tr>
func (c *RutorClient) parseListing(body []byte) ([]models.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing: %v: %w", err, models.ErrFormat)
	}

	var records []models.RawRecord
	doc.Find("tr.gai, tr.tum").Each(func(_ int, row *goquery.Selection) {
		link := row.Find(`a[href^="/torrent/"]`).First()
		m := torrentIDRegex.FindStringSubmatch(link.AttrOr("href", ""))
		if m == nil {
			return
		}

		record := models.RawRecord{
			"id":     m[1],
			"title":  cleanText(link.Text()),
			"magnet": row.Find(`a[href^="magnet:"]`).AttrOr("href", ""),
			"seed":   cleanText(row.Find("span.green").Text()),
			"leech":  cleanText(row.Find("span.red").Text()),
		}
		if file := row.Find("a.downgif").AttrOr("href", ""); file != "" {
			record["file"] = c.absolute(file)
		}

		cells := row.Find("td")
		if cells.Length() >= 3 {
			record["date"] = cleanText(cells.First().Text())
			record["size"] = cleanText(cells.Eq(cells.Length() - 2).Text())
		}
		records = append(records, record)
	})

	return records, nil
}

func (c *RutorClient) absolute(href string) string {
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	if strings.HasPrefix(href, "/") {
		return c.host + href
	}
	return href
}

// cleanText collapses non-breaking spaces and surrounding whitespace
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

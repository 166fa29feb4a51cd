// Package sdk provides a Go client for the coldreach API.
//
// The client generates outreach emails from a careers page URL or from
// already-scraped text:
//
//	client := sdk.New("http://localhost:8080", sdk.WithAPIKey("secret"))
//	resp, err := client.GenerateFromURL(ctx, "https://example.com/careers")
//	for _, r := range resp.Results {
//	    if r.Error == "" {
//	        fmt.Println(r.Job.Role, r.Email)
//	    }
//	}
//
// Failures are mapped to sentinel errors; use errors.Is to check:
//
//	if errors.Is(err, sdk.ErrCatalogUnavailable) { ... }
package sdk

// Package newznab provides an HTTP client for the JSON flavour of the newznab
// indexer API.
//
// # Overview
//
// Two read-only functions are used:
//
//   - GET {host}/api?t=caps&o=json: the category taxonomy
//   - GET {host}/api?t=search&o=json&limit=100&cat=..&q=..&apikey=..: a search
//
// Indexers generate their JSON by converting the XML feed, so the payloads are
// loosely typed. Lists holding one element arrive as a bare object, numbers may
// be strings, attributes may be nested under "@attributes" and element text
// under "#text". All of that is resolved while decoding; callers only see
// Category and SearchResult.
//
// # Client Usage
//
//	client, err := newznab.NewClient("https://indexer.example", newznab.WithTimeout(30*time.Second))
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//	defer client.Close()
//
//	cats, err := client.Categories(ctx)
//	results, err := client.Search(ctx, newznab.Query{
//		Text:       "ubuntu",
//		Categories: newznab.CategoryIDs(cats),
//		APIKey:     key,
//	})
//
// # Error Handling
//
// An error payload ({"error": {"code": "100", ...}}) is returned as *APIError.
// Use IsAuthError to detect a rejected API key. Network failures, non-2xx
// statuses without an error payload, and malformed bodies are returned as
// wrapped errors:
//
//   - "execute request: Get \"http://host/api\": dial tcp: connection refused"
//   - "api search returned status 502"
//   - "decode response: unexpected end of JSON input"
//
// Transport errors never include the query string, which carries the API key.
//
// # JSONP
//
// Older indexers wrap responses in a callback, "cb({...});". The wrapper is
// stripped before decoding.
//
// # Thread Safety
//
// Client is safe for concurrent use. Requests are paced by an optional rate
// limiter shared by all callers.
package newznab

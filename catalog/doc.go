// Package catalog reads the list of font families served by the Google
// Fonts Developer API and resolves family and variant selections to the
// URL of a variant's outline file.
//
// The catalog is fetched once and then treated as read-only:
//
//	client := catalog.NewClient(apiKey, catalog.WithSort("popularity"))
//	cat, err := client.Fetch(ctx)
//	if err != nil {
//	    return err
//	}
//	url, err := cat.VariantURL(cat.Index("Roboto"), 0)
package catalog

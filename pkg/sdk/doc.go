// Package regalo embeds the gift search pipeline in a Go program.
//
// The client parses a free-text query into a structured intent, retrieves matching
// products from the catalog database and ranks them by keyword overlap. Intent parsing
// uses a hosted model when configured and falls back to a local heuristic.
//
//	client, err := regalo.New(ctx,
//	    regalo.WithPostgres("postgres://localhost:5432/regalo?sslmode=disable"),
//	    regalo.WithProvider("openai", os.Getenv("OPENAI_API_KEY")),
//	)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	res, err := client.Search(ctx, regalo.SearchRequest{Query: "lego para mi sobrino", Limit: 10})
package regalo

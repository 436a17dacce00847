// Package jobmatch embeds the resume-to-job matching engine in a Go program
// without running the HTTP service.
//
// The client loads a corpus of job postings once, fits the configured vector
// space over it and then serves concurrent matching calls.
//
//	client, err := jobmatch.New(ctx, jobmatch.WithCSV("postings.csv"))
//	if err != nil {
//	    return err
//	}
//
//	report, _ := client.MatchPDF(ctx, resumeBytes)
//	for _, m := range report.Matches {
//	    fmt.Println(m.Rank, m.Title, m.Score)
//	}
//
// Dense matching is enabled by passing an Embedder:
//
//	client, _ := jobmatch.New(ctx,
//	    jobmatch.WithParquet("postings.parquet"),
//	    jobmatch.WithEmbedder(myEmbedder),
//	)
package jobmatch

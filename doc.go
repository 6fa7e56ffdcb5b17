// Package peercat provides a Go client SDK for PeerCat, an AI image
// generation API billed in prepaid credits or paid per prompt on Solana.
//
// Basic usage:
//
//	client, err := peercat.New(os.Getenv("PEERCAT_API_KEY"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := client.Generate(ctx, peercat.GenerateParams{
//	    Prompt: "a lighthouse at dusk, oil painting",
//	    Mode:   peercat.ModeDemo,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.ImageURL)
//
// # Retries
//
// Every call goes through one executor. Rate limit, server, transport and
// timeout failures are retried with capped exponential backoff (1s, 2s, 4s,
// 8s, 10s by default, see [WithRetries] and [WithBackoff]); a server
// Retry-After hint replaces the computed wait. Other failures are returned
// after a single attempt.
//
// # Errors
//
// Failed calls return *[Error]. Switch on its Kind, or use errors.Is with
// the sentinels:
//
//	var pe *peercat.Error
//	switch {
//	case errors.Is(err, peercat.ErrInsufficientCredits):
//	    // top up
//	case errors.As(err, &pe) && pe.Kind == peercat.KindRateLimit:
//	    // pe.RetryAfter, pe.RateLimit
//	}
//
// A cancelled or expired context is returned as the context's own error.
package peercat

// Package wallet signs API key creation requests with a Solana wallet key.
//
// PeerCat authorizes key creation by an ed25519 signature from the wallet
// that owns the account. Keys, public keys and signatures travel as base58
// strings, the encoding Solana wallets export.
//
//	kp, err := wallet.FromBase58(os.Getenv("PEERCAT_WALLET_SECRET"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	params := kp.NewCreateKeyParams("ci", wallet.KeyCreationMessage(time.Now()))
//	created, err := client.CreateKey(ctx, params)
package wallet

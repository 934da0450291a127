// Package tlsroots provides TLS material for the devkit metrics endpoint.
//
//   - roots.go: trusted certificate pools for client verification
//   - keypair.go: a server key pair that can be reloaded in place
//
// A Keypair is wired to a confloader.Watcher so a renewed certificate is
// picked up without restarting the endpoint:
//
//	kp, _ := tlsroots.LoadKeypair(certFile, keyFile, logger)
//	_ = kp.Watch(watcher)
//	srv.TLSConfig = tlsroots.ServerConfig(kp, nil)
package tlsroots

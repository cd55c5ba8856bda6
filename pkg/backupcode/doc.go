// Package backupcode issues and checks single-use recovery codes that stand in
// for a TOTP code when the authenticator device is unavailable.
//
// A code is 8 upper-case hex characters drawn from crypto/rand. Only the hex
// SHA-256 digest of the normalized code is meant to be stored; Verify and
// Match re-hash the candidate and compare it against every stored digest in
// constant time. Normalization upper-cases the input and strips everything
// outside [A-Z0-9], which makes "abcd-1234" equivalent to "ABCD1234".
//
//	codes, _ := backupcode.Generate(backupcode.DefaultCount)
//	digests := backupcode.HashAll(codes)
//	show(backupcode.FormatAll(codes)) // "ABCD-1234", ...
//
//	if digest, ok := backupcode.Match(input, digests); ok {
//		// remove digest from storage
//	}
package backupcode

package signer

// Verifier checks detached signatures over manifest files
type Verifier interface {
	// VerifyFile checks the detached signature at sigPath over the file at path
	VerifyFile(path, sigPath string) error

	// VerifyDetached checks a detached signature over data
	VerifyDetached(data, signature []byte) error
}

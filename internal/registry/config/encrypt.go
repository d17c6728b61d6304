package config

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"math"
	"regexp"
)

// Decryptor decrypts "ENC(...)" blocks embedded in a TOML config file,
// so a database password can live in version control in encrypted
// form rather than as plaintext.
type Decryptor struct {
	*rsa.PrivateKey
}

func parseRsaKey(key []byte) (any, error) {
	block, _ := pem.Decode(key)
	if block == nil {
		return nil, errors.New("malformed key")
	}
	switch block.Type {
	case "PUBLIC KEY":
		return x509.ParsePKIXPublicKey(block.Bytes)
	case "RSA PRIVATE KEY":
		return x509.ParsePKCS1PrivateKey(block.Bytes)
	case "PRIVATE KEY":
		return x509.ParsePKCS8PrivateKey(block.Bytes)
	}
	return nil, fmt.Errorf("key type not supported: %s", block.Type)
}

func NewDecryptor(privateKeyPEM string) (*Decryptor, error) {
	rsaKey, err := parseRsaKey([]byte(privateKeyPEM))
	if err != nil {
		return nil, err
	}
	k, ok := rsaKey.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("not an rsa private key")
	}
	return &Decryptor{PrivateKey: k}, nil
}

func (d *Decryptor) Decrypt(data []byte) ([]byte, error) {
	chunkLen := d.N.BitLen() / 8
	var b bytes.Buffer
	chunkNum := int(math.Ceil(float64(len(data)) / float64(chunkLen)))
	for i := 0; i < chunkNum; i++ {
		start, end := chunkLen*i, chunkLen*(i+1)
		if i == chunkNum-1 {
			end = len(data)
		}
		part, err := rsa.DecryptPKCS1v15(rand.Reader, d.PrivateKey, data[start:end])
		if err != nil {
			return nil, err
		}
		b.Write(part)
	}
	return b.Bytes(), nil
}

var regEncryptedBlock = regexp.MustCompile(`^ENC\([A-Za-z0-9+/]+={0,2}\)$`)

// decryptValue decrypts value if it looks like an "ENC(...)" block,
// otherwise it returns value unchanged.
func decryptValue(value, privateKeyPEM string) string {
	if privateKeyPEM == "" || !regEncryptedBlock.MatchString(value) {
		return value
	}
	raw, err := base64.StdEncoding.DecodeString(value[4 : len(value)-1])
	if err != nil {
		return value
	}
	d, err := NewDecryptor(privateKeyPEM)
	if err != nil {
		return value
	}
	plain, err := d.Decrypt(raw)
	if err != nil {
		return value
	}
	return string(plain)
}

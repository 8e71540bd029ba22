package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/smallyu/go-cryptlib/internal/crypto/curves"
	"github.com/smallyu/go-cryptlib/internal/crypto/ecdh"
	"github.com/smallyu/go-cryptlib/pkg/cryptlib/factory"
)

// errInvalidSignature makes verify exit with a non-0 status.
var errInvalidSignature = errors.New("signature is not valid")

type keyPairOutput struct {
	Algorithm  string `json:"algorithm"`
	Variant    string `json:"variant"`
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

func keygenCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a key pair for the configured algorithm and variant.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := factory.New(e.cfg.Algorithm, factory.WithLogger(e.logger))
			if err := f.Init(e.cfg.Variant); err != nil {
				return err
			}
			pub, priv, err := f.GenerateKey(e.rand)
			if err != nil {
				return err
			}
			return e.print(keyPairOutput{
				Algorithm:  f.Algorithm(),
				Variant:    f.Variant(),
				PublicKey:  e.cfg.EncodeBytes(pub),
				PrivateKey: e.cfg.EncodeBytes(priv),
			})
		},
	}
}

// message returns the message argument, decoded with the configured byte
// encoding when encoded is set.
func (e *env) message(arg string, encoded bool) ([]byte, error) {
	if encoded {
		return e.decode("message", arg)
	}
	return []byte(arg), nil
}

func signCmd(e *env) *cobra.Command {
	var encoded bool
	cmd := &cobra.Command{
		Use:   "sign <private-key> <message>",
		Short: "Sign a message with ECDSA.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.requireAlgorithm(factory.ECDSA); err != nil {
				return err
			}
			signer, err := factory.NewSigner(e.cfg.Variant)
			if err != nil {
				return err
			}
			priv, err := e.decode("private key", args[0])
			if err != nil {
				return err
			}

			msg, err := e.message(args[1], encoded)
			if err != nil {
				return err
			}

			sig, err := signer.Sign(priv, msg)
			if err != nil {
				return err
			}
			e.logger.Debug("signed message", zap.String("curve", e.cfg.Variant), zap.Int("message_size", len(msg)))
			return e.print(map[string]string{"signature": e.cfg.EncodeBytes(sig)})
		},
	}
	cmd.Flags().BoolVar(&encoded, "encoded-message", false, "decode the message with --encoding instead of signing its text")
	return cmd
}

func verifyCmd(e *env) *cobra.Command {
	var encoded bool
	cmd := &cobra.Command{
		Use:   "verify <public-key> <message> <signature>",
		Short: "Verify an ECDSA signature. Exits with a non-zero status when it is invalid.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.requireAlgorithm(factory.ECDSA); err != nil {
				return err
			}
			signer, err := factory.NewSigner(e.cfg.Variant)
			if err != nil {
				return err
			}
			pub, err := e.decode("public key", args[0])
			if err != nil {
				return err
			}
			sig, err := e.decode("signature", args[2])
			if err != nil {
				return err
			}

			msg, err := e.message(args[1], encoded)
			if err != nil {
				return err
			}

			valid := signer.Verify(pub, msg, sig)
			if err := e.print(map[string]bool{"valid": valid}); err != nil {
				return err
			}
			if !valid {
				return errInvalidSignature
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&encoded, "encoded-message", false, "decode the message with --encoding instead of verifying its text")
	return cmd
}

func ecdhCmd(e *env) *cobra.Command {
	var (
		salt, info string
		length     int
	)
	cmd := &cobra.Command{
		Use:   "ecdh <private-key> <peer-public-key>",
		Short: "Derive an ECDH shared secret, optionally expanded with HKDF.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.requireAlgorithm(factory.ECDH); err != nil {
				return err
			}
			c, err := curves.ByName(e.cfg.Variant)
			if err != nil {
				return err
			}
			priv, err := e.decode("private key", args[0])
			if err != nil {
				return err
			}
			peer, err := e.decode("peer public key", args[1])
			if err != nil {
				return err
			}

			kex := ecdh.New(c)
			var secret []byte
			if length > 0 {
				secret, err = kex.DeriveKey(priv, peer, []byte(salt), []byte(info), length)
			} else {
				secret, err = kex.SharedSecret(priv, peer)
			}
			if err != nil {
				return err
			}
			return e.print(map[string]string{"shared_secret": e.cfg.EncodeBytes(secret)})
		},
	}
	cmd.Flags().IntVar(&length, "length", 0, "expand the secret with HKDF to this many bytes")
	cmd.Flags().StringVar(&salt, "salt", "", "HKDF salt")
	cmd.Flags().StringVar(&info, "info", "", "HKDF context info")
	return cmd
}

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/smallyu/go-cryptlib/pkg/cryptlib"
	"github.com/smallyu/go-cryptlib/pkg/cryptlib/factory"
)

func kemCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kem",
		Short: "ML-KEM (Kyber) encapsulation commands.",
	}
	cmd.AddCommand(encapCmd(e), decapCmd(e))
	return cmd
}

func (e *env) kem() (cryptlib.KEM, error) {
	if err := e.requireAlgorithm(factory.Kyber); err != nil {
		return nil, err
	}
	return factory.NewKEM(e.cfg.Variant)
}

func encapCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "encap <public-key>",
		Short: "Encapsulate a fresh shared secret to a public key.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := e.kem()
			if err != nil {
				return err
			}
			pub, err := e.decode("public key", args[0])
			if err != nil {
				return err
			}

			ct, ss, err := k.Encapsulate(e.rand, pub)
			if err != nil {
				return err
			}
			e.logger.Debug("encapsulated shared secret", zap.String("variant", e.cfg.Variant), zap.Int("ciphertext_size", len(ct)))
			return e.print(map[string]string{
				"ciphertext":    e.cfg.EncodeBytes(ct),
				"shared_secret": e.cfg.EncodeBytes(ss),
			})
		},
	}
}

func decapCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "decap <private-key> <ciphertext>",
		Short: "Recover the shared secret from a ciphertext.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := e.kem()
			if err != nil {
				return err
			}
			priv, err := e.decode("private key", args[0])
			if err != nil {
				return err
			}
			ct, err := e.decode("ciphertext", args[1])
			if err != nil {
				return err
			}

			ss, err := k.Decapsulate(priv, ct)
			if err != nil {
				return err
			}
			return e.print(map[string]string{"shared_secret": e.cfg.EncodeBytes(ss)})
		},
	}
}

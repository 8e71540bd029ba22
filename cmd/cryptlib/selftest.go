package main

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/smallyu/go-cryptlib/internal/crypto/curves"
	"github.com/smallyu/go-cryptlib/internal/crypto/ecdh"
	"github.com/smallyu/go-cryptlib/internal/crypto/ecdsa"
	"github.com/smallyu/go-cryptlib/internal/crypto/kem"
)

type checkResult struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type check struct {
	name string
	run  func(rand io.Reader) error
}

// lockedReader serializes reads so one reader can feed concurrent checks.
type lockedReader struct {
	mu sync.Mutex
	r  io.Reader
}

func (l *lockedReader) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Read(p)
}

func selftestCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "selftest",
		Short: "Run a sign, verify, key agreement and encapsulation round trip for every curve and KEM variant.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := runChecks(cmd.Context(), e.logger, &lockedReader{r: e.rand}, selftestChecks())
			if perr := e.print(results); perr != nil {
				return perr
			}
			return err
		},
	}
}

func selftestChecks() []check {
	var checks []check
	for _, name := range curves.Names() {
		checks = append(checks,
			check{name: "ecdsa/" + name, run: func(rand io.Reader) error { return checkECDSA(name, rand) }},
			check{name: "ecdh/" + name, run: func(rand io.Reader) error { return checkECDH(name, rand) }},
		)
	}
	for _, variant := range kem.Variants() {
		checks = append(checks, check{name: "kem/" + variant, run: func(rand io.Reader) error { return checkKEM(variant, rand) }})
	}
	return checks
}

// runChecks runs all checks concurrently and returns their results in the
// order given. The error is that of the first failing check.
func runChecks(ctx context.Context, logger *zap.Logger, rand io.Reader, checks []check) ([]checkResult, error) {
	results := make([]checkResult, len(checks))
	g, ctx := errgroup.WithContext(ctx)
	for i, c := range checks {
		g.Go(func() error {
			results[i].Name = c.name
			if err := ctx.Err(); err != nil {
				results[i].Error = err.Error()
				return nil
			}
			if err := c.run(rand); err != nil {
				results[i].Error = err.Error()
				logger.Warn("self test failed", zap.String("check", c.name), zap.Error(err))
				return errors.WithMessage(err, c.name)
			}
			results[i].OK = true
			logger.Debug("self test passed", zap.String("check", c.name))
			return nil
		})
	}
	return results, g.Wait()
}

func checkECDSA(name string, rand io.Reader) error {
	c, err := curves.ByName(name)
	if err != nil {
		return err
	}
	s := ecdsa.New(c)
	pub, priv, err := s.GenerateKey(rand)
	if err != nil {
		return err
	}
	msg := []byte("cryptlib self test")
	sig, err := s.Sign(priv, msg)
	if err != nil {
		return err
	}
	if !s.Verify(pub, msg, sig) {
		return errors.New("signature did not verify")
	}
	if s.Verify(pub, append(msg, '!'), sig) {
		return errors.New("signature verified for a different message")
	}
	return nil
}

func checkECDH(name string, rand io.Reader) error {
	c, err := curves.ByName(name)
	if err != nil {
		return err
	}
	kex := ecdh.New(c)
	alicePub, alicePriv, err := kex.GenerateKey(rand)
	if err != nil {
		return err
	}
	bobPub, bobPriv, err := kex.GenerateKey(rand)
	if err != nil {
		return err
	}
	s1, err := kex.SharedSecret(alicePriv, bobPub)
	if err != nil {
		return err
	}
	s2, err := kex.SharedSecret(bobPriv, alicePub)
	if err != nil {
		return err
	}
	if !bytes.Equal(s1, s2) {
		return errors.New("shared secrets differ")
	}
	return nil
}

func checkKEM(variant string, rand io.Reader) error {
	k, err := kem.New(variant)
	if err != nil {
		return err
	}
	pub, priv, err := k.GenerateKey(rand)
	if err != nil {
		return err
	}
	ct, ss, err := k.Encapsulate(rand, pub)
	if err != nil {
		return err
	}
	got, err := k.Decapsulate(priv, ct)
	if err != nil {
		return err
	}
	if !bytes.Equal(ss, got) {
		return errors.New("decapsulated secret differs")
	}
	return nil
}

package main

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"cn25519.mleku.dev"
)

// decodeHex32 parses a 32-byte hex argument
func decodeHex32(name, s string) ([32]byte, error) {
	var out [32]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, errors.Wrapf(err, "%s is not valid hex", name)
	}
	if len(b) != 32 {
		return out, errors.Errorf("%s must be 32 bytes, got %d", name, len(b))
	}
	copy(out[:], b)
	return out, nil
}

func (c *cli) keygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a random key pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sec, pub, err := c.ctx.RandomKeyPair()
			if err != nil {
				return errors.WithMessage(err, "generating key pair")
			}
			defer sec.Zero()

			c.logger.Debugw("generated key pair", "pub", pub.String())
			fmt.Fprintf(cmd.OutOrStdout(), "secret: %x\npublic: %s\n", sec[:], pub)
			return nil
		},
	}
}

func (c *cli) pubkeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pubkey <secret>",
		Short: "Print the public key of a secret key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := decodeHex32("secret", args[0])
			if err != nil {
				return err
			}
			sec := cn25519.SecretKey(raw)
			defer sec.Zero()

			pub, err := cn25519.SecretKeyToPublicKey(sec)
			if err != nil {
				return errors.WithMessage(err, "deriving public key")
			}
			fmt.Fprintln(cmd.OutOrStdout(), pub)
			return nil
		},
	}
}

func (c *cli) signCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sign <secret> <prefix-hash>",
		Short: "Sign a 32-byte prefix hash",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := decodeHex32("secret", args[0])
			if err != nil {
				return err
			}
			sec := cn25519.SecretKey(raw)
			defer sec.Zero()

			msg, err := decodeHex32("prefix hash", args[1])
			if err != nil {
				return err
			}

			pub, err := cn25519.SecretKeyToPublicKey(sec)
			if err != nil {
				return errors.WithMessage(err, "deriving public key")
			}
			sig, err := c.ctx.GenerateSignature(cn25519.Hash(msg), pub, sec)
			if err != nil {
				return errors.WithMessage(err, "signing")
			}

			c.logger.Debugw("signed", "pub", pub.String(), "hash", hex.EncodeToString(msg[:]))
			fmt.Fprintln(cmd.OutOrStdout(), sig)
			return nil
		},
	}
}

func (c *cli) verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <public> <prefix-hash> <signature>",
		Short: "Verify a signature; exits non-zero if it is invalid",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := decodeHex32("public key", args[0])
			if err != nil {
				return err
			}
			msg, err := decodeHex32("prefix hash", args[1])
			if err != nil {
				return err
			}
			rawSig, err := hex.DecodeString(args[2])
			if err != nil {
				return errors.Wrap(err, "signature is not valid hex")
			}
			if len(rawSig) != cn25519.SignatureSize {
				return errors.Errorf("signature must be %d bytes, got %d", cn25519.SignatureSize, len(rawSig))
			}

			err = c.ctx.VerifySignature(cn25519.Hash(msg), cn25519.PublicKey(pub), cn25519.Signature(rawSig))
			if err != nil {
				c.logger.Infow("signature rejected", "reason", err.Error())
				return errors.WithMessage(err, "invalid signature")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
}

func (c *cli) deriveCmd() *cobra.Command {
	var spendSec string

	cmd := &cobra.Command{
		Use:   "derive <tx-public> <view-secret> <index> <spend-public>",
		Short: "Derive the one-time key of an output",
		Long: `Computes the key derivation 8*view-secret*tx-public and the one-time
public key spend-public + Hs(derivation || index)*B of the output at index.
With --spend-secret the matching one-time secret key is printed too.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			txPub, err := decodeHex32("tx public key", args[0])
			if err != nil {
				return err
			}
			rawView, err := decodeHex32("view secret", args[1])
			if err != nil {
				return err
			}
			viewSec := cn25519.SecretKey(rawView)
			defer viewSec.Zero()

			index, err := strconv.ParseUint(args[2], 10, 64)
			if err != nil {
				return errors.Wrap(err, "index must be an unsigned integer")
			}
			spendPub, err := decodeHex32("spend public key", args[3])
			if err != nil {
				return err
			}

			d, err := cn25519.GenerateKeyDerivation(cn25519.PublicKey(txPub), viewSec)
			if err != nil {
				return errors.WithMessage(err, "generating key derivation")
			}
			out, err := c.ctx.DeriveOutputPublicKey(d, index, cn25519.PublicKey(spendPub))
			if err != nil {
				return errors.WithMessage(err, "deriving output public key")
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "derivation: %s\npublic: %s\n", d, out)

			if spendSec == "" {
				return nil
			}
			rawSpend, err := decodeHex32("spend secret", spendSec)
			if err != nil {
				return err
			}
			base := cn25519.SecretKey(rawSpend)
			defer base.Zero()

			outSec, err := c.ctx.DeriveOutputSecretKey(d, index, base)
			if err != nil {
				return errors.WithMessage(err, "deriving output secret key")
			}
			defer outSec.Zero()
			fmt.Fprintf(w, "secret: %x\n", outSec[:])
			return nil
		},
	}
	cmd.Flags().StringVar(&spendSec, "spend-secret", "", "spend secret key, to also derive the output secret key")
	return cmd
}

func (c *cli) keyimageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keyimage <secret>",
		Short: "Print the key image of a one-time secret key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := decodeHex32("secret", args[0])
			if err != nil {
				return err
			}
			sec := cn25519.SecretKey(raw)
			defer sec.Zero()

			pub, err := cn25519.SecretKeyToPublicKey(sec)
			if err != nil {
				return errors.WithMessage(err, "deriving public key")
			}
			ki, err := c.ctx.GenerateKeyImage(pub, sec)
			if err != nil {
				return errors.WithMessage(err, "generating key image")
			}
			fmt.Fprintln(cmd.OutOrStdout(), ki)
			return nil
		},
	}
}

func (c *cli) hashCmd() *cobra.Command {
	var toScalar bool

	cmd := &cobra.Command{
		Use:   "hash <hex-data>",
		Short: "Hash data with the configured hash function",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := hex.DecodeString(args[0])
			if err != nil {
				return errors.Wrap(err, "data is not valid hex")
			}

			if toScalar {
				s := cn25519.HashToScalar(c.ctx.Hasher(), data)
				fmt.Fprintf(cmd.OutOrStdout(), "%x\n", s.Bytes())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.ctx.Hasher().Sum(data))
			return nil
		},
	}
	cmd.Flags().BoolVar(&toScalar, "scalar", false, "reduce the digest modulo the group order")
	return cmd
}

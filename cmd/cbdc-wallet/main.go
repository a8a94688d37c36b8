// Command cbdc-wallet is a demonstration CLI driving a full offline-spend
// round trip: a bank mints a token, a wallet spends it across a device
// spend-authorization, and a receiver verifies and accepts the result.
// Styled after the original ccoind demo entrypoint: a flag-configured run,
// an ASCII banner, and plain progress lines rather than structured logging,
// since this binary's job is to be read, not operated.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ccoin/offline-cbdc-wallet/internal/bank"
	"github.com/ccoin/offline-cbdc-wallet/internal/device"
	"github.com/ccoin/offline-cbdc-wallet/internal/receiver"
	"github.com/ccoin/offline-cbdc-wallet/internal/wallet"
	"github.com/ccoin/offline-cbdc-wallet/pkg/common"
)

const banner = `
  ____ ____  ____   ____     ___   __ _____ _ _             __        __    _ _      _
 / ___| __ )|  _ \ / ___|   / _ \ / _|  ___| (_)_ __   ___  \ \      / /_ _| | | ___| |_
| |   |  _ \| | | | |      | | | | |_| |_  | | | '_ \ / _ \  \ \ /\ / / _` + "`" + ` | | |/ _ \ __|
| |___| |_) | |_| | |___    | |_| |  _|  _| | | | | |  __/   \ V  V / (_| | | |  __/ |_
 \____|____/|____/ \____|    \___/|_| |_|   |_|_|_| |_|\___|    \_/\_/ \__,_|_|_|\___|\__|
`

func main() {
	mintValue := flag.Int64("mint", 50, "value of the token to mint")
	spendValue := flag.Int64("spend", 30, "value to pay the receiver out of the minted token")
	deviceID := flag.String("device-id", "demo-device-1", "certificate ID for the spending device")
	deviceIDHex := flag.String("device-id-hex", "", "certificate ID as hex bytes (optional 0x prefix), overrides -device-id if set")
	certTTL := flag.Uint64("cert-ttl", 365*24*60*60, "device certificate validity window, in seconds")
	ledgerKind := flag.String("ledger", "mem", `issuance ledger backend: "mem" or "postgres"`)
	pgHost := flag.String("pg-host", "localhost", "postgres ledger host (with -ledger=postgres)")
	pgPort := flag.Int("pg-port", 5432, "postgres ledger port (with -ledger=postgres)")
	pgUser := flag.String("pg-user", "cbdc", "postgres ledger user (with -ledger=postgres)")
	pgPassword := flag.String("pg-password", "", "postgres ledger password (with -ledger=postgres)")
	pgDatabase := flag.String("pg-database", "cbdc_issuance", "postgres ledger database (with -ledger=postgres)")
	flag.Parse()

	if err := run(*mintValue, *spendValue, *deviceID, *deviceIDHex, *certTTL, *ledgerKind, *pgHost, *pgPort, *pgUser, *pgPassword, *pgDatabase); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(mintValue, spendValue int64, deviceID, deviceIDHex string, certTTL uint64, ledgerKind, pgHost string, pgPort int, pgUser, pgPassword, pgDatabase string) error {
	fmt.Print(banner)

	if spendValue < 0 || spendValue > mintValue {
		return fmt.Errorf("spend value %d must be between 0 and the minted value %d", spendValue, mintValue)
	}
	changeValue := mintValue - spendValue
	ctx := context.Background()

	certID := []byte(deviceID)
	if deviceIDHex != "" {
		decoded, err := common.HexToBytes(deviceIDHex)
		if err != nil {
			return fmt.Errorf("decode -device-id-hex: %w", err)
		}
		certID = decoded
	}

	fmt.Println("setting up bank, device identity, and certificate...")
	issuanceKey, err := bank.GenerateIssuanceKey()
	if err != nil {
		return fmt.Errorf("generate issuance key: %w", err)
	}

	ledger, closeLedger, err := openLedger(ctx, ledgerKind, pgHost, pgPort, pgUser, pgPassword, pgDatabase)
	if err != nil {
		return fmt.Errorf("open issuance ledger: %w", err)
	}
	defer closeLedger()
	b := bank.NewBank(issuanceKey, ledger)

	authoritySchnorr, err := device.GenerateKeyPair()
	if err != nil {
		return fmt.Errorf("generate bank authority keys: %w", err)
	}
	authority := device.NewBankAuthority(authoritySchnorr)

	deviceKeys, err := device.GenerateKeyPair()
	if err != nil {
		return fmt.Errorf("generate device keys: %w", err)
	}
	now := common.Now()
	cert, err := authority.IssueCertificate(deviceKeys.Public, certID, now, now+certTTL)
	if err != nil {
		return fmt.Errorf("issue device certificate: %w", err)
	}
	fmt.Printf("  device certificate issued for id=%s, valid until unix %d\n", common.BytesToHex(certID), cert.ExpiresAt)

	w := wallet.New(b, func(sig, msg []byte) bool {
		return bank.VerifyIssuance(issuanceKey.PublicKey(), sig, msg)
	}, deviceKeys, cert)

	fmt.Printf("minting a token of value %d...\n", mintValue)
	token, err := w.Mint(ctx, mintValue)
	if err != nil {
		return fmt.Errorf("mint: %w", err)
	}
	serialBytes := token.Serial.Bytes32()
	fmt.Printf("  minted token serial=%s expires=%d\n", common.BytesToHex(serialBytes), token.Expiry)

	fmt.Printf("spending %d to a receiver, keeping %d as change...\n", spendValue, changeValue)
	tx, err := w.Spend(ctx, token.Serial, spendValue, changeValue, now+certTTL)
	if err != nil {
		return fmt.Errorf("spend: %w", err)
	}
	fmt.Printf("  built offline transaction with %d output token(s)\n", len(tx.OutputTokens))

	fmt.Println("handing the transaction to a receiver for verification...")
	r := receiver.New(authority.PublicKey(), func() uint64 { return common.Now() })
	if !r.VerifyAndAccept(tx) {
		return fmt.Errorf("receiver rejected the offline transaction")
	}
	w.Confirmed(tx.InputSerials[0])

	fmt.Println("receiver accepted the transaction. owned tokens:")
	for _, t := range r.OwnedTokens() {
		fmt.Printf("  value=%d expires=%d\n", t.V, t.Expiry)
	}

	if mem, ok := ledger.(*bank.MemLedger); ok {
		fmt.Println("bank ledger:")
		for _, rec := range mem.Records() {
			fmt.Printf("  serial=%s expires=%d\n", common.BytesToHex(rec.Serial.Bytes32()), rec.Expiry)
		}
	} else {
		fmt.Println("bank ledger: issuance records persisted to the postgres ledger")
	}
	return nil
}

// openLedger builds the issuance ledger named by kind ("mem" or "postgres"),
// returning it alongside a close function the caller must defer. For the mem
// backend the close function is a no-op.
func openLedger(ctx context.Context, kind, host string, port int, user, password, database string) (bank.Ledger, func(), error) {
	switch kind {
	case "mem":
		return bank.NewMemLedger(), func() {}, nil
	case "postgres":
		cfg := bank.DefaultPostgresConfig()
		cfg.Host = host
		cfg.Port = port
		cfg.User = user
		cfg.Password = password
		cfg.Database = database
		ledger, err := bank.NewPostgresLedger(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := ledger.EnsureSchema(ctx); err != nil {
			ledger.Close()
			return nil, nil, err
		}
		return ledger, ledger.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown ledger backend %q (want %q or %q)", kind, "mem", "postgres")
	}
}

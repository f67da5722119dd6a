// Viewer dumps the durable message log of one chat as a table, without
// touching the running server. Badger is opened read-only with the lock
// guard bypassed so it works while the gateway holds the directory.
package main

import (
	"chat-hub/domain"
	"chat-hub/repositories"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
)

type Config struct {
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
}

func main() {
	chatID := flag.String("chat", "", "Chat id to dump (empty scans every chat)")
	flag.Parse()

	// 1. Load config
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// 2. Open Badger in Read-Only mode
	// Note: BypassLockGuard allows opening if another process holds the lock
	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	prefix := "msg:"
	if *chatID != "" {
		prefix = fmt.Sprintf("msg:%s:", domain.ChatID(*chatID))
	}
	color.Green.Printf("Messages under %q\n", prefix)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Time", "Chat", "Sender", "Content", "Attachments"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				var message repositories.DiskMessage
				if err := json.Unmarshal(v, &message); err != nil {
					// Log and keep scanning instead of stopping the dump.
					fmt.Printf("Error unmarshaling key %s: %v\n", string(item.Key()), err)
					return nil
				}

				attachments := ""
				for _, a := range message.Attachments {
					attachments += a.PublicID + " "
				}

				table.Append([]string{
					message.At.Format("15:04:05"),
					string(message.ChatID),
					message.Sender,
					message.Content,
					attachments,
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"go.mongodb.org/mongo-driver/bson"
)

// Operator tool: dumps one persisted resource (users, groups, or
// messages) as a table, straight from the on-disk records.
func main() {
	dbPath := flag.String("db", "./warehouse-db", "Path to badger DB")
	resource := flag.String("resource", "messages", "Resource to dump: users, groups or messages")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
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

	var prefix string
	switch *resource {
	case "users":
		prefix = "user:"
		table.SetHeader([]string{"Key", "Name", "Created"})
	case "groups":
		prefix = "group:"
		table.SetHeader([]string{"Key", "Name", "Members"})
	case "messages":
		prefix = "msg:"
		table.SetHeader([]string{"Key", "Time", "From", "To", "Body"})
	default:
		log.Fatalf("Unknown resource %q", *resource)
	}

	header := fmt.Sprintf(" %s @ %s ", *resource, *dbPath)
	fmt.Println(color.New(color.BgBlack, color.FgGreen).Render(header))

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			item := it.Item()
			rawKey := string(item.Key())

			err := item.Value(func(v []byte) error {
				row, err := renderRow(*resource, rawKey, v)
				if err != nil {
					// Keep scanning: one broken record should not hide
					// the rest of the resource.
					fmt.Printf("Error decoding key %s: %v\n", rawKey, err)
					return nil
				}
				table.Append(row)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal("Scan failed: ", err)
	}

	table.Render()
}

func renderRow(resource, key string, val []byte) ([]string, error) {
	switch resource {
	case "users":
		var rec struct {
			Name      string `bson:"name"`
			CreatedAt int64  `bson:"created_at"`
		}
		if err := bson.Unmarshal(val, &rec); err != nil {
			return nil, err
		}
		created := time.Unix(rec.CreatedAt, 0).UTC().Format(time.RFC822)
		return []string{key, rec.Name, created}, nil
	case "groups":
		var rec struct {
			Name    string `bson:"name"`
			Members []struct {
				Name string `bson:"name"`
			} `bson:"members"`
		}
		if err := bson.Unmarshal(val, &rec); err != nil {
			return nil, err
		}
		members := ""
		for i, m := range rec.Members {
			if i > 0 {
				members += ", "
			}
			members += m.Name
		}
		return []string{key, rec.Name, members}, nil
	default:
		var rec struct {
			SenderName string `bson:"sender_name"`
			TargetName string `bson:"target_name"`
			TargetKind string `bson:"target_kind"`
			Body       string `bson:"body"`
			At         int64  `bson:"at"`
		}
		if err := bson.Unmarshal(val, &rec); err != nil {
			return nil, err
		}
		to := rec.TargetName
		if rec.TargetKind == "group" {
			to = "#" + to
		}
		at := time.Unix(0, rec.At).UTC().Format("15:04:05")
		return []string{key, at, rec.SenderName, to, rec.Body}, nil
	}
}

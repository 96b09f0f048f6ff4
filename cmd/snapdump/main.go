// snapdump prints a world snapshot as a YAML scene.
//
// Usage:
//
//	go run ./cmd/snapdump snapshots/world.snap
//	go run ./cmd/snapdump -dsn postgres://... -name world
//
// The output can be fed back to the engine as a scene file. Entity
// handles are written as comments since scenes allocate fresh ones.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/symbiote/engine/internal/component"
	"github.com/symbiote/engine/internal/config"
	"github.com/symbiote/engine/internal/core/ecs"
	"github.com/symbiote/engine/internal/persist"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func main() {
	dsn := flag.String("dsn", "", "read the snapshot from postgres instead of a file")
	name := flag.String("name", "world", "snapshot name when reading from postgres")
	flag.Parse()

	data, err := readSnapshot(*dsn, *name, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "snapdump: %v\n", err)
		os.Exit(1)
	}
	if err := dump(os.Stdout, data); err != nil {
		fmt.Fprintf(os.Stderr, "snapdump: %v\n", err)
		os.Exit(1)
	}
}

func readSnapshot(dsn, name string, args []string) ([]byte, error) {
	if dsn == "" {
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: snapdump <file> | -dsn <dsn> [-name <name>]")
		}
		return os.ReadFile(args[0])
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	db, err := persist.OpenSnapshotDB(ctx, config.DatabaseConfig{DSN: dsn, MaxOpenConns: 1}, zap.NewNop())
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.Snapshots().LoadSnapshot(ctx, name)
}

func dump(w io.Writer, data []byte) error {
	m := ecs.NewEntityManager()
	if _, err := component.Register(m); err != nil {
		return err
	}
	if err := m.Deserialize(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	entities := &yaml.Node{Kind: yaml.SequenceNode}
	for e := range m.Entities() {
		cs, err := m.Components(e)
		if err != nil {
			return err
		}
		comps := &yaml.Node{Kind: yaml.MappingNode}
		for _, c := range cs {
			var fields yaml.Node
			if err := fields.Encode(c); err != nil {
				return fmt.Errorf("encode %s: %w", c.ComponentName(), err)
			}
			fields.Style = yaml.FlowStyle
			comps.Content = append(comps.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: c.ComponentName()},
				&fields,
			)
		}
		entity := &yaml.Node{Kind: yaml.MappingNode, HeadComment: "entity " + e.String()}
		entity.Content = append(entity.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "components"},
			comps,
		)
		entities.Content = append(entities.Content, entity)
	}

	doc := &yaml.Node{
		Kind:        yaml.MappingNode,
		HeadComment: fmt.Sprintf("%d entities, %d bytes, blake2b %s", m.Size(), len(data), persist.Digest(data)),
	}
	doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: "entities"}, entities)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

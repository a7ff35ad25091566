package main

import (
	"os"
	"reflect"
	"strings"

	musgen "github.com/mus-format/musgen-go/mus"
	genops "github.com/mus-format/musgen-go/options/generate"
	structops "github.com/mus-format/musgen-go/options/struct"
	typeops "github.com/mus-format/musgen-go/options/type"
	"github.com/poiesic/simrank/core"
)

const output = "./core/records_mus.gen.go"

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	// go generate runs from core/; the output path is relative to the module root
	if strings.HasSuffix(cwd, "core") {
		if err := os.Chdir(".."); err != nil {
			panic(err)
		}
	}

	bs, err := generate()
	if err != nil {
		panic(err)
	}
	if err := os.WriteFile(output, bs, 0644); err != nil {
		panic(err)
	}
}

func generate() ([]byte, error) {
	g, err := musgen.NewCodeGenerator(
		genops.WithPkgPath("github.com/poiesic/simrank/core"),
	)
	if err != nil {
		return nil, err
	}

	if err := g.AddDefinedType(reflect.TypeFor[core.ID]()); err != nil {
		return nil, err
	}

	// Id, CandidateID, Text, Source, InsertedAt (unix micros)
	err = g.AddStruct(reflect.TypeFor[core.CatalogEntry](),
		structops.WithField(),
		structops.WithField(),
		structops.WithField(),
		structops.WithField(),
		structops.WithField(typeops.WithTimeUnit(typeops.Micro)))
	if err != nil {
		return nil, err
	}

	return g.Generate()
}

package usecases

import (
	"context"

	"github.com/lintang-b-s/osm-featuremap/pkg/assembler"
	"github.com/lintang-b-s/osm-featuremap/pkg/route"
)

type Assembler interface {
	Generate(ctx context.Context, req *assembler.Request) (*assembler.Reply, error)
}

type RouteEncoder interface {
	Encode(list []route.Element, strs *route.StringTable, opts route.Options) (*route.Result, error)
}

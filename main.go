package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/neimanpinchas/haxego/internal/backend"
	"github.com/neimanpinchas/haxego/internal/diagnostics"
	"github.com/neimanpinchas/haxego/internal/typed"
	"github.com/neimanpinchas/haxego/internal/types"
)

const version = "0.1.0"

func main() {
	output := flag.String("o", "", "Write generated lua to a file instead of stdout")
	prelude := flag.Bool("prelude", true, "Prepend the runtime prelude")
	showVersion := flag.Bool("v", false, "Show version")
	flag.BoolVar(showVersion, "version", false, "Show version")

	flag.Parse()

	if *showVersion {
		fmt.Printf("haxego backend version %s\n", version)
		os.Exit(0)
	}

	// The module is the back half of a compiler; without a front end on
	// top, the binary doubles as a smoke driver over a built-in program.
	b := backend.New(diagnostics.NewDiagnosticBag(), nil)
	text, ok := b.Compile(sampleProgram())
	b.Bag().EmitAll()
	if !ok {
		os.Exit(1)
	}

	if *prelude {
		text = backend.Prelude() + "\n" + text
	}

	if *output == "" {
		fmt.Print(text)
		return
	}
	if err := os.WriteFile(*output, []byte(text), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// sampleProgram builds a small typed tree the way a front end would hand it
// over: a greeter class exercising string handling, a loop, and printing
// through the __global__ escape.
func sampleProgram() []typed.Decl {
	printFn := &typed.Local{Name: "__global__", ID: 1, Type: types.TypeDynamic}
	strLit := func(v string) typed.Node {
		return &typed.Const{Kind: typed.ConstString, Value: v, Type: types.TypeString}
	}
	intLit := func(v string) typed.Node {
		return &typed.Const{Kind: typed.ConstInt, Value: v, Type: types.TypeInt}
	}

	i := &typed.Local{Name: "i", ID: 2, Type: types.TypeInt}
	name := &typed.Local{Name: "name", ID: 3, Type: types.TypeString}

	greet := typed.Method{
		Name:   "greet",
		Params: []typed.FuncParam{{Name: "name", ID: 3, Type: types.TypeString}},
		Return: types.TypeVoid,
		Static: true,
		Body: &typed.Block{Stmts: []typed.Node{
			&typed.Call{
				Fun: printFn,
				Args: []typed.Node{
					strLit("print"),
					&typed.Binary{Op: typed.OpAdd, X: strLit("hello "), Y: name, Type: types.TypeString},
				},
				Type: types.TypeVoid,
			},
		}},
	}

	mainBody := &typed.Block{Stmts: []typed.Node{
		&typed.VarDecl{Name: "i", ID: 2, Init: intLit("0"), Type: types.TypeInt},
		&typed.While{
			Cond: &typed.Binary{Op: typed.OpLt, X: i, Y: intLit("3"), Type: types.TypeBool},
			Body: &typed.Block{Stmts: []typed.Node{
				&typed.Call{
					Fun: &typed.Field{
						Name:  "greet",
						Kind:  typed.FieldStatic,
						Owner: types.NewNamed("demo.Main", types.DeclClass),
						Type:  &types.Function{Params: []types.Param{{Name: "name", Type: types.TypeString}}, Return: types.TypeVoid},
					},
					Args: []typed.Node{&typed.Binary{Op: typed.OpAdd, X: strLit("#"), Y: i, Type: types.TypeString}},
					Type: types.TypeVoid,
				},
				&typed.Binary{Op: typed.OpAssignAdd, X: i, Y: intLit("1"), Type: types.TypeInt},
			}},
			TestFirst: true,
		},
	}}

	return []typed.Decl{
		&typed.Class{
			Pack: "demo",
			Name: "Main",
			Methods: []typed.Method{
				greet,
				{Name: "main", Return: types.TypeVoid, Static: true, Body: mainBody},
			},
		},
	}
}

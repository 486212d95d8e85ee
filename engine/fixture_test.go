package engine

import (
	"testing"

	"github.com/speakeasy-api/symtypes"
	"github.com/speakeasy-api/symtypes/hierarchy"
)

var (
	intType  = symtypes.PrimType{Kind: symtypes.Int}
	longType = symtypes.PrimType{Kind: symtypes.Long}

	petType     = symtypes.RefType{Name: "zoo.Pet"}
	animalType  = symtypes.RefType{Name: "zoo.Animal"}
	dogType     = symtypes.RefType{Name: "zoo.Dog"}
	catType     = symtypes.RefType{Name: "zoo.Cat"}
	anonDogType = symtypes.RefType{Name: "zoo.Dog$1"}
	lambdaType  = symtypes.RefType{Name: "zoo.Outer$lambda_run_0"}
	synthType   = symtypes.RefType{Name: "zoo.Synth$Gen"}
	hiddenType  = symtypes.RefType{Name: "org.utbot.api.visible.Hidden"}
	dogMockType = symtypes.RefType{Name: "zoo.DogMock"}
	utMapType   = symtypes.RefType{Name: "org.utbot.engine.overrides.collections.UtHashMap"}
	integerType = symtypes.RefType{Name: "java.lang.Integer"}
	hashMapType = symtypes.RefType{Name: "java.util.HashMap"}
	mapType     = symtypes.RefType{Name: "java.util.Map"}
	fileType    = symtypes.RefType{Name: "java.io.File"}
	lonelyType  = symtypes.RefType{Name: "zoo.Lonely"}
)

func zooUniverse(t *testing.T) *hierarchy.Universe {
	t.Helper()
	pub := hierarchy.ModPublic
	ctor := func(params ...symtypes.Type) hierarchy.Method {
		return hierarchy.Method{Name: hierarchy.ConstructorName, Params: params}
	}
	bark := hierarchy.Method{Name: "bark", Params: []symtypes.Type{intType}}

	u, err := hierarchy.NewBuilder().
		AddClass(hierarchy.Class{Name: "java.lang.Number", Modifiers: pub | hierarchy.ModAbstract}).
		AddClass(hierarchy.Class{Name: integerType.Name, Super: "java.lang.Number", Modifiers: pub}).
		AddClass(hierarchy.Class{Name: mapType.Name, Modifiers: pub | hierarchy.ModInterface}).
		AddClass(hierarchy.Class{Name: hashMapType.Name, Interfaces: []string{mapType.Name}, Modifiers: pub}).
		AddClass(hierarchy.Class{Name: fileType.Name, Modifiers: pub}).
		AddClass(hierarchy.Class{Name: petType.Name, Modifiers: pub | hierarchy.ModInterface}).
		AddClass(hierarchy.Class{
			Name:      animalType.Name,
			Modifiers: pub | hierarchy.ModAbstract,
			Fields:    []hierarchy.Field{{Name: "name", Type: symtypes.RefType{Name: "java.lang.String"}}},
		}).
		AddClass(hierarchy.Class{
			Name:       dogType.Name,
			Super:      animalType.Name,
			Interfaces: []string{petType.Name},
			Modifiers:  pub,
			Fields:     []hierarchy.Field{{Name: "age", Type: intType}},
			Methods:    []hierarchy.Method{bark, ctor(), ctor(intType)},
		}).
		AddClass(hierarchy.Class{Name: catType.Name, Super: animalType.Name, Modifiers: pub}).
		AddClass(hierarchy.Class{Name: anonDogType.Name, Super: dogType.Name}).
		AddClass(hierarchy.Class{Name: lambdaType.Name, Interfaces: []string{petType.Name}, Modifiers: hierarchy.ModArtificial}).
		AddClass(hierarchy.Class{Name: synthType.Name, Interfaces: []string{petType.Name}, Modifiers: hierarchy.ModArtificial}).
		AddClass(hierarchy.Class{Name: hiddenType.Name, Super: animalType.Name}).
		AddClass(hierarchy.Class{Name: utMapType.Name, Interfaces: []string{mapType.Name}, Modifiers: pub}).
		AddClass(hierarchy.Class{
			Name:      dogMockType.Name,
			Modifiers: pub,
			Methods: []hierarchy.Method{
				bark,
				ctor(),
				{Name: hierarchy.ConstructorName, Params: []symtypes.Type{intType}, MockConstructor: true},
			},
			Mock: &hierarchy.MockAnnotation{Target: "Lzoo/Dog;"},
		}).
		AddClass(hierarchy.Class{Name: lonelyType.Name, Modifiers: pub | hierarchy.ModInterface}).
		Build()
	if err != nil {
		t.Fatalf("fixture universe: %v", err)
	}
	return u
}

func newZooSession(t *testing.T, opts ...Options) *Session {
	t.Helper()
	s, err := NewSession(zooUniverse(t), opts...)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func typeNames(types []symtypes.Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}

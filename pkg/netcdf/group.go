package netcdf

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/coinbase/netcdf-go/pkg/netcdf/internal/backend"
)

// Group is a container of dimensions, variables, attributes and child
// groups. Classic files have only the root group.
type Group struct {
	file *File
	ncid int
}

// File returns the file the group belongs to.
func (g *Group) File() *File { return g.file }

// Name returns the group name; the root group is "/".
func (g *Group) Name() (string, error) {
	var name string
	err := call("group name", func(lib *backend.Lib) error {
		if err := g.file.check(); err != nil {
			return err
		}
		var err error
		name, err = lib.InqGrpName(g.ncid)
		return err
	})
	return name, err
}

func (g *Group) dimension(lib *backend.Lib, id int) (*Dimension, error) {
	name, _, err := lib.InqDim(g.ncid, id)
	if err != nil {
		return nil, err
	}
	unlim, err := unlimitedDims(lib, g.ncid)
	if err != nil {
		return nil, err
	}
	return &Dimension{file: g.file, ncid: g.ncid, id: id, name: name, unlimited: slices.Contains(unlim, id)}, nil
}

// unlimitedDims returns the unlimited dimensions visible from ncid: its
// own and those of every enclosing group.
func unlimitedDims(lib *backend.Lib, ncid int) ([]int, error) {
	var ids []int
	for {
		own, err := lib.InqUnlimDims(ncid)
		if err != nil {
			return nil, err
		}
		ids = append(ids, own...)
		parent, err := lib.InqGrpParent(ncid)
		if errors.Is(err, backend.ENoGrp) {
			return ids, nil
		}
		if err != nil {
			return nil, err
		}
		ncid = parent
	}
}

// Dimension looks up a dimension visible from the group.
func (g *Group) Dimension(name string) (*Dimension, error) {
	var d *Dimension
	err := call("dimension "+strconv.Quote(name), func(lib *backend.Lib) error {
		if err := g.file.check(); err != nil {
			return err
		}
		id, err := lib.InqDimID(g.ncid, name)
		if err != nil {
			return err
		}
		d, err = g.dimension(lib, id)
		return err
	})
	return d, err
}

// Dimensions lists the dimensions defined in the group.
func (g *Group) Dimensions() ([]*Dimension, error) {
	var dims []*Dimension
	err := call("dimensions", func(lib *backend.Lib) error {
		if err := g.file.check(); err != nil {
			return err
		}
		ids, err := lib.InqDimIDs(g.ncid)
		if err != nil {
			return err
		}
		for _, id := range ids {
			d, err := g.dimension(lib, id)
			if err != nil {
				return err
			}
			dims = append(dims, d)
		}
		return nil
	})
	return dims, err
}

// AddDimension defines a dimension. A length of zero makes it unlimited.
func (g *Group) AddDimension(name string, length int) (*Dimension, error) {
	if length < 0 {
		return nil, fmt.Errorf("%w: dimension %q length %d", ErrInvalidArgument, name, length)
	}
	var d *Dimension
	err := call("add dimension "+strconv.Quote(name), func(lib *backend.Lib) error {
		if err := g.file.check(); err != nil {
			return err
		}
		var id int
		err := defineMode(lib, g.ncid, func() error {
			var err error
			id, err = lib.DefDim(g.ncid, name, length)
			return err
		})
		if err != nil {
			return err
		}
		d = &Dimension{file: g.file, ncid: g.ncid, id: id, name: name, unlimited: length == backend.Unlimited}
		return nil
	})
	return d, err
}

// AddUnlimitedDimension defines a dimension that grows as data is written.
func (g *Group) AddUnlimitedDimension(name string) (*Dimension, error) {
	return g.AddDimension(name, backend.Unlimited)
}

func (g *Group) variable(lib *backend.Lib, id int) (*Variable, error) {
	info, err := lib.InqVar(g.ncid, id)
	if err != nil {
		return nil, err
	}
	return &Variable{file: g.file, ncid: g.ncid, id: id, name: info.Name, typ: Type(info.Type), dimids: info.DimIDs}, nil
}

// Variable looks up a variable of the group.
func (g *Group) Variable(name string) (*Variable, error) {
	var v *Variable
	err := call("variable "+strconv.Quote(name), func(lib *backend.Lib) error {
		if err := g.file.check(); err != nil {
			return err
		}
		id, err := lib.InqVarID(g.ncid, name)
		if err != nil {
			return err
		}
		v, err = g.variable(lib, id)
		return err
	})
	return v, err
}

// Variables lists the variables of the group in definition order.
func (g *Group) Variables() ([]*Variable, error) {
	var vars []*Variable
	err := call("variables", func(lib *backend.Lib) error {
		if err := g.file.check(); err != nil {
			return err
		}
		ids, err := lib.InqVarIDs(g.ncid)
		if err != nil {
			return err
		}
		for _, id := range ids {
			v, err := g.variable(lib, id)
			if err != nil {
				return err
			}
			vars = append(vars, v)
		}
		return nil
	})
	return vars, err
}

// AddVariable defines a variable over the named dimensions, outermost
// first. No dimensions makes a scalar.
func (g *Group) AddVariable(name string, typ Type, dims ...string) (*Variable, error) {
	var v *Variable
	err := call("add variable "+strconv.Quote(name), func(lib *backend.Lib) error {
		if err := g.file.check(); err != nil {
			return err
		}
		ids := make([]int, len(dims))
		for i, d := range dims {
			id, err := lib.InqDimID(g.ncid, d)
			if err != nil {
				return err
			}
			ids[i] = id
		}
		var err error
		v, err = g.defVar(lib, name, typ, ids)
		return err
	})
	return v, err
}

// AddVariableFromDimensions defines a variable over dimension handles,
// which must belong to the same file.
func (g *Group) AddVariableFromDimensions(name string, typ Type, dims ...*Dimension) (*Variable, error) {
	ids := make([]int, len(dims))
	for i, d := range dims {
		if d == nil || d.file != g.file {
			return nil, fmt.Errorf("%w: dimension %d of %q belongs to another file", ErrInvalidArgument, i, name)
		}
		ids[i] = d.id
	}
	var v *Variable
	err := call("add variable "+strconv.Quote(name), func(lib *backend.Lib) error {
		if err := g.file.check(); err != nil {
			return err
		}
		var err error
		v, err = g.defVar(lib, name, typ, ids)
		return err
	})
	return v, err
}

// AddStringVariable defines a variable of variable-length strings.
func (g *Group) AddStringVariable(name string, dims ...string) (*Variable, error) {
	return g.AddVariable(name, String, dims...)
}

func (g *Group) defVar(lib *backend.Lib, name string, typ Type, dimids []int) (*Variable, error) {
	var id int
	err := defineMode(lib, g.ncid, func() error {
		var err error
		id, err = lib.DefVar(g.ncid, name, backend.Type(typ), dimids)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &Variable{file: g.file, ncid: g.ncid, id: id, name: name, typ: typ, dimids: slices.Clone(dimids)}, nil
}

// Attribute looks up a group attribute.
func (g *Group) Attribute(name string) (*Attribute, error) {
	return attributeOf(g.file, g.ncid, backend.Global, name)
}

// Attributes lists the group attributes.
func (g *Group) Attributes() ([]*Attribute, error) {
	return attributesOf(g.file, g.ncid, backend.Global)
}

// PutAttribute creates or replaces a group attribute. See AttributeValue
// for the accepted value types.
func (g *Group) PutAttribute(name string, value any) (*Attribute, error) {
	return putAttribute(g.file, g.ncid, backend.Global, name, value)
}

// DeleteAttribute removes a group attribute.
func (g *Group) DeleteAttribute(name string) error {
	return deleteAttribute(g.file, g.ncid, backend.Global, name)
}

// Group looks up a child group.
func (g *Group) Group(name string) (*Group, error) {
	var child *Group
	err := call("group "+strconv.Quote(name), func(lib *backend.Lib) error {
		if err := g.file.check(); err != nil {
			return err
		}
		id, err := lib.InqGrpNcid(g.ncid, name)
		if err != nil {
			return err
		}
		child = &Group{file: g.file, ncid: id}
		return nil
	})
	return child, err
}

// Groups lists the child groups.
func (g *Group) Groups() ([]*Group, error) {
	var groups []*Group
	err := call("groups", func(lib *backend.Lib) error {
		if err := g.file.check(); err != nil {
			return err
		}
		ids, err := lib.InqGrps(g.ncid)
		if err != nil {
			return err
		}
		for _, id := range ids {
			groups = append(groups, &Group{file: g.file, ncid: id})
		}
		return nil
	})
	return groups, err
}

// AddGroup defines a child group. Only netCDF-4 files have groups.
func (g *Group) AddGroup(name string) (*Group, error) {
	var child *Group
	err := call("add group "+strconv.Quote(name), func(lib *backend.Lib) error {
		if err := g.file.check(); err != nil {
			return err
		}
		return defineMode(lib, g.ncid, func() error {
			id, err := lib.DefGrp(g.ncid, name)
			if err != nil {
				return err
			}
			child = &Group{file: g.file, ncid: id}
			return nil
		})
	})
	return child, err
}

package netcdf

import "github.com/coinbase/netcdf-go/pkg/netcdf/internal/backend"

// Mode holds the flags passed to OpenWith, AppendWith and CreateWith.
type Mode int

const (
	// NoClobber makes CreateWith fail if the file already exists.
	NoClobber Mode = backend.ModeNoClobber
	// Share disables buffering for files shared between processes.
	Share Mode = backend.ModeShare
	// Classic restricts a netCDF-4 file to the classic data model.
	Classic Mode = backend.ModeClassicModel
	// Offset64Bit selects the 64-bit offset (CDF-2) format.
	Offset64Bit Mode = backend.Mode64BitOffset
	// NetCDF4 selects the HDF5-based netCDF-4 format.
	NetCDF4 Mode = backend.ModeNetCDF4
	// Data64Bit selects the CDF-5 format.
	Data64Bit Mode = backend.Mode64BitData
	// Diskless keeps the dataset in memory; nothing is written on close.
	Diskless Mode = backend.ModeDiskless
)

// Format is the on-disk format of an open file.
type Format int

const (
	FormatClassic        Format = backend.FormatClassic
	Format64BitOffset    Format = backend.Format64BitOffset
	FormatNetCDF4        Format = backend.FormatNetCDF4
	FormatNetCDF4Classic Format = backend.FormatNetCDF4Classic
	Format64BitData      Format = backend.Format64BitData
)

func (f Format) String() string {
	switch f {
	case FormatClassic:
		return "classic"
	case Format64BitOffset:
		return "64-bit offset"
	case FormatNetCDF4:
		return "netCDF-4"
	case FormatNetCDF4Classic:
		return "netCDF-4 classic model"
	case Format64BitData:
		return "64-bit data"
	}
	return "unknown"
}

// Endianness is the byte order of a netCDF-4 variable on disk.
type Endianness int

const (
	EndianNative Endianness = backend.EndianNative
	EndianLittle Endianness = backend.EndianLittle
	EndianBig    Endianness = backend.EndianBig
)

func (e Endianness) String() string {
	switch e {
	case EndianNative:
		return "native"
	case EndianLittle:
		return "little"
	case EndianBig:
		return "big"
	}
	return "unknown"
}

package prover

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/zechproject/zech-core/circuits/anonymous"
	"github.com/zechproject/zech-core/circuits/confidential"
	"github.com/zechproject/zech-core/log"
)

// artifacts holds the compiled constraint system and the Groth16 key pair of
// one circuit.
type artifacts struct {
	ccs constraint.ConstraintSystem
	pk  groth16.ProvingKey
	vk  groth16.VerifyingKey
}

// compileArtifacts compiles the circuit and loads its key pair from dataDir,
// running and persisting a fresh setup when no keys exist yet. The setup
// here is a development convenience; production keys come out of a
// ceremony and are dropped into dataDir by the operator.
func compileArtifacts(dataDir, name string, circuit frontend.Circuit) (*artifacts, error) {
	ccs, err := frontend.Compile(ecc.BLS12_381.ScalarField(), r1cs.NewBuilder, circuit)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s circuit: %w", name, err)
	}
	log.Debugw("circuit compiled", "circuit", name, "constraints", ccs.GetNbConstraints())

	pkPath := filepath.Join(dataDir, name+".pk")
	vkPath := filepath.Join(dataDir, name+".vk")
	pk, pkErr := loadProvingKey(pkPath)
	vk, vkErr := loadVerifyingKey(vkPath)
	if pkErr == nil && vkErr == nil {
		return &artifacts{ccs: ccs, pk: pk, vk: vk}, nil
	}

	log.Infow("generating groth16 keys", "circuit", name, "dataDir", dataDir)
	pk, vk, err = groth16.Setup(ccs)
	if err != nil {
		return nil, fmt.Errorf("failed groth16 setup for %s: %w", name, err)
	}
	if err := saveKey(pkPath, pk); err != nil {
		return nil, err
	}
	if err := saveKey(vkPath, vk); err != nil {
		return nil, err
	}
	return &artifacts{ccs: ccs, pk: pk, vk: vk}, nil
}

func saveKey(path string, key io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if _, err := key.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func loadProvingKey(path string) (groth16.ProvingKey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	pk := groth16.NewProvingKey(ecc.BLS12_381)
	if _, err := pk.ReadFrom(f); err != nil {
		return nil, err
	}
	return pk, nil
}

func loadVerifyingKey(path string) (groth16.VerifyingKey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	vk := groth16.NewVerifyingKey(ecc.BLS12_381)
	if _, err := vk.ReadFrom(f); err != nil {
		return nil, err
	}
	return vk, nil
}

func confidentialArtifacts(dataDir string) (*artifacts, error) {
	return compileArtifacts(dataDir, "confidential", &confidential.Circuit{})
}

func anonymousArtifacts(dataDir string) (*artifacts, error) {
	return compileArtifacts(dataDir, "anonymous", &anonymous.Circuit{})
}
